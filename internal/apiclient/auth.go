package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/ratelimit"
)

func (c *Client) authCall(op, method, path string) call {
	return call{
		op:       op,
		endpoint: ratelimit.EndpointAuth,
		method:   method,
		path:     path,
		authOp:   true,
	}
}

// CurrentUser checks a stored token. An expired token is an AuthFailure.
func (c *Client) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	cl := c.authCall("auth.me", http.MethodGet, "/auth/me")
	cl.token = token
	cl.out = &user
	cl.idempotent = true
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	cl := c.authCall("auth.login", http.MethodPost, "/auth/login")
	cl.body = req
	cl.out = &resp
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	cl := c.authCall("auth.register", http.MethodPost, "/auth/register")
	cl.body = req
	cl.out = &resp
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	cl := c.authCall("auth.logout", http.MethodPost, "/auth/logout")
	cl.token = token
	return c.do(ctx, cl)
}

// ExchangeOAuthSession trades the broker's short-lived session id for an
// API token.
func (c *Client) ExchangeOAuthSession(ctx context.Context, sessionID string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	cl := c.authCall("auth.oauth", http.MethodPost, "/auth/session")
	cl.headers = map[string]string{"X-Session-ID": sessionID}
	cl.out = &resp
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OAuthLoginURL is where the browser goes to sign in with the identity
// broker. The broker sends it back to redirect with the session id in the
// URL fragment.
func (c *Client) OAuthLoginURL(redirect string) string {
	return c.brokerURL + "/?redirect=" + url.QueryEscape(redirect)
}

func (c *Client) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	cl := c.authCall("auth.forgot", http.MethodPost, "/auth/forgot-password")
	cl.body = req
	cl.out = &resp
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyResetToken reports whether a reset link is still usable. Unknown or
// expired tokens come back as Valid false, not as an error.
func (c *Client) VerifyResetToken(ctx context.Context, token string) (*models.TokenStatus, error) {
	var status models.TokenStatus
	cl := c.authCall("auth.verify_reset", http.MethodGet, "/auth/verify-reset-token/"+url.PathEscape(token))
	cl.out = &status
	cl.idempotent = true
	err := c.do(ctx, cl)
	if err == nil {
		return &status, nil
	}
	var rf *models.RequestFailure
	if errors.Is(err, models.ErrAuthFailed) || (errors.As(err, &rf) && rf.Status == http.StatusNotFound) {
		return &models.TokenStatus{Valid: false}, nil
	}
	return nil, err
}

func (c *Client) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	cl := c.authCall("auth.reset", http.MethodPost, "/auth/reset-password")
	cl.body = struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}{req.Token, req.Password}
	cl.out = &resp
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return &resp, nil
}
