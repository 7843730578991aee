// Package auth signs the visitor's session cookie and keeps the API token of
// a signed-in visitor in the server-side session.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/session"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

const MsgMissingOAuthSession = "Sign-in was cancelled or the link is incomplete. Please try again."

// API is the part of the flight API the auth flows need.
type API interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	ExchangeOAuthSession(ctx context.Context, sessionID string) (*models.AuthResponse, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.MessageResponse, error)
	VerifyResetToken(ctx context.Context, token string) (*models.TokenStatus, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error)
}

// Credentials is what gets stored per signed-in session.
type Credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type Service struct {
	api   API
	store session.Store
	log   *logger.Logger
}

func NewService(api API, store session.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Service{api: api, store: store, log: log}
}

func credentialsKey(sid string) string {
	return "auth:" + sid
}

// Restore returns the signed-in user for sid, or nil for a guest. A token
// the API rejects is forgotten. When the API cannot be reached the stored
// user is kept so a flaky backend does not sign anyone out.
func (s *Service) Restore(ctx context.Context, sid string) (*models.User, error) {
	var creds Credentials
	if err := s.store.Load(ctx, credentialsKey(sid), &creds); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := s.api.CurrentUser(ctx, creds.Token)
	switch {
	case err == nil:
		creds.User = *user
		if err := s.store.Save(ctx, credentialsKey(sid), creds); err != nil {
			return nil, err
		}
		return user, nil
	case errors.Is(err, models.ErrAuthFailed):
		return nil, s.store.Delete(ctx, credentialsKey(sid))
	default:
		s.log.WarnContext(ctx, "Session check failed, keeping stored user", "error", err.Error())
		return &creds.User, nil
	}
}

func (s *Service) Login(ctx context.Context, sid, ip string, req models.LoginRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.log.LogAuthFailure(ctx, "login: "+err.Error(), ip)
		return nil, err
	}
	return s.remember(ctx, sid, "password", resp)
}

func (s *Service) Register(ctx context.Context, sid, ip string, req models.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		s.log.LogAuthFailure(ctx, "register: "+err.Error(), ip)
		return nil, err
	}
	return s.remember(ctx, sid, "register", resp)
}

// OAuthCallback finishes a broker sign-in using the session id the broker
// put in the URL fragment.
func (s *Service) OAuthCallback(ctx context.Context, sid, ip, brokerSessionID string) (*models.User, error) {
	brokerSessionID = strings.TrimSpace(brokerSessionID)
	if brokerSessionID == "" {
		return nil, &models.AuthFailure{Reason: MsgMissingOAuthSession}
	}
	resp, err := s.api.ExchangeOAuthSession(ctx, brokerSessionID)
	if err != nil {
		s.log.LogAuthFailure(ctx, "oauth: "+err.Error(), ip)
		return nil, err
	}
	return s.remember(ctx, sid, "oauth", resp)
}

func (s *Service) remember(ctx context.Context, sid, method string, resp *models.AuthResponse) (*models.User, error) {
	creds := Credentials{Token: resp.Token, User: resp.User}
	if err := s.store.Save(ctx, credentialsKey(sid), creds); err != nil {
		return nil, err
	}
	s.log.LogAuthSuccess(ctx, resp.User.ID, method)
	return &resp.User, nil
}

// Logout tells the API and forgets the token. The local session is cleared
// even if the API call fails.
func (s *Service) Logout(ctx context.Context, sid string) error {
	var creds Credentials
	err := s.store.Load(ctx, credentialsKey(sid), &creds)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err == nil {
		if err := s.api.Logout(ctx, creds.Token); err != nil {
			s.log.WarnContext(ctx, "API logout failed", "error", err.Error())
		}
	}
	return s.store.Delete(ctx, credentialsKey(sid))
}

func (s *Service) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	resp, err := s.api.ForgotPassword(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Message != "" {
		return resp.Message, nil
	}
	return "If an account exists for that email, a reset link is on its way.", nil
}

// CheckResetToken reports whether the reset form may be shown.
func (s *Service) CheckResetToken(ctx context.Context, token string) (*models.TokenStatus, error) {
	if strings.TrimSpace(token) == "" {
		return &models.TokenStatus{Valid: false}, nil
	}
	return s.api.VerifyResetToken(ctx, token)
}

func (s *Service) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error) {
	resp, err := s.api.ResetPassword(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Message != "" {
		return resp.Message, nil
	}
	return "Your password has been reset. You can now sign in.", nil
}
