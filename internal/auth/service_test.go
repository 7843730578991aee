package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/session"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

type fakeAPI struct {
	users       map[string]models.User // token -> user
	meErr       error
	loginErr    error
	logoutCalls int
	tokenValid  bool
}

func (f *fakeAPI) CurrentUser(_ context.Context, token string) (*models.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	u, ok := f.users[token]
	if !ok {
		return nil, &models.AuthFailure{Reason: "Not authenticated"}
	}
	return &u, nil
}

func (f *fakeAPI) Login(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	u := models.User{ID: "u1", Email: req.Email, FirstName: "Ada"}
	f.users["tok-1"] = u
	return &models.AuthResponse{User: u, Token: "tok-1"}, nil
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	u := models.User{ID: "u2", Email: req.Email, FirstName: req.FirstName}
	f.users["tok-2"] = u
	return &models.AuthResponse{User: u, Token: "tok-2"}, nil
}

func (f *fakeAPI) Logout(context.Context, string) error {
	f.logoutCalls++
	return nil
}

func (f *fakeAPI) ExchangeOAuthSession(_ context.Context, sessionID string) (*models.AuthResponse, error) {
	u := models.User{ID: "g1", Email: "g@example.com", Provider: "google"}
	f.users["tok-g"] = u
	return &models.AuthResponse{User: u, Token: "tok-g"}, nil
}

func (f *fakeAPI) ForgotPassword(context.Context, models.ForgotPasswordRequest) (*models.MessageResponse, error) {
	return &models.MessageResponse{Success: true}, nil
}

func (f *fakeAPI) VerifyResetToken(context.Context, string) (*models.TokenStatus, error) {
	return &models.TokenStatus{Valid: f.tokenValid}, nil
}

func (f *fakeAPI) ResetPassword(context.Context, models.ResetPasswordRequest) (*models.MessageResponse, error) {
	return &models.MessageResponse{Success: true, Message: "Password updated"}, nil
}

func newService(api *fakeAPI) *Service {
	return NewService(api, session.NewMemoryStore(time.Hour), logger.NewWithWriter(io.Discard, "production", "error"))
}

func TestLoginThenRestore(t *testing.T) {
	api := &fakeAPI{users: map[string]models.User{}}
	s := newService(api)
	ctx := context.Background()

	user, err := s.Restore(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.Login(ctx, "sid", "127.0.0.1", models.LoginRequest{Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	user, err = s.Restore(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
}

func TestRestore_ForgetsRejectedToken(t *testing.T) {
	api := &fakeAPI{users: map[string]models.User{}}
	s := newService(api)
	ctx := context.Background()

	_, err := s.Login(ctx, "sid", "", models.LoginRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	delete(api.users, "tok-1")

	user, err := s.Restore(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, user)

	var creds Credentials
	assert.ErrorIs(t, s.store.Load(ctx, credentialsKey("sid"), &creds), session.ErrNotFound)
}

func TestRestore_KeepsUserWhenAPIUnreachable(t *testing.T) {
	api := &fakeAPI{users: map[string]models.User{}}
	s := newService(api)
	ctx := context.Background()

	_, err := s.Login(ctx, "sid", "", models.LoginRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	api.meErr = &models.RequestFailure{Op: "auth.me", Message: "down"}

	user, err := s.Restore(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
}

func TestLogin_Failure(t *testing.T) {
	api := &fakeAPI{users: map[string]models.User{}, loginErr: &models.AuthFailure{Reason: "Invalid email or password"}}
	s := newService(api)

	_, err := s.Login(context.Background(), "sid", "", models.LoginRequest{Email: "a@b.com", Password: "x"})
	assert.ErrorIs(t, err, models.ErrAuthFailed)
}

func TestOAuthCallback(t *testing.T) {
	api := &fakeAPI{users: map[string]models.User{}}
	s := newService(api)
	ctx := context.Background()

	_, err := s.OAuthCallback(ctx, "sid", "", "  ")
	assert.ErrorIs(t, err, models.ErrAuthFailed)

	user, err := s.OAuthCallback(ctx, "sid", "", "broker-123")
	require.NoError(t, err)
	assert.Equal(t, "google", user.Provider)
}

func TestLogout(t *testing.T) {
	api := &fakeAPI{users: map[string]models.User{}}
	s := newService(api)
	ctx := context.Background()

	require.NoError(t, s.Logout(ctx, "sid"))
	assert.Zero(t, api.logoutCalls)

	_, err := s.Register(ctx, "sid", "", models.RegisterRequest{FirstName: "Grace", Email: "g@h.com"})
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx, "sid"))
	assert.Equal(t, 1, api.logoutCalls)

	user, err := s.Restore(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestPasswordReset(t *testing.T) {
	api := &fakeAPI{users: map[string]models.User{}}
	s := newService(api)
	ctx := context.Background()

	status, err := s.CheckResetToken(ctx, "")
	require.NoError(t, err)
	assert.False(t, status.Valid)

	status, err = s.CheckResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, status.Valid)

	api.tokenValid = true
	status, err = s.CheckResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, status.Valid)

	msg, err := s.ResetPassword(ctx, models.ResetPasswordRequest{Token: "tok", Password: "newpass123"})
	require.NoError(t, err)
	assert.Equal(t, "Password updated", msg)

	msg, err = s.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@b.com"})
	require.NoError(t, err)
	assert.Contains(t, msg, "reset link")
}
