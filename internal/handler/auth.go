package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

const MsgAuthUnavailable = "We could not reach the sign-in service. Please try again."

type authData struct {
	baseData
	Email     string
	FirstName string
	LastName  string
	Token     string
	OAuthURL  string
}

func (h *Handler) authPage(c echo.Context, title string) authData {
	return authData{
		baseData: h.base(c, title),
		OAuthURL: "/auth/oauth",
	}
}

// authStatus maps a failed auth call to the status of the re-rendered form.
func authStatus(err error) int {
	if errors.Is(err, models.ErrAuthFailed) {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

func authError(c echo.Context, status int, msg string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg,
		Code:    status,
	})
}

func (h *Handler) LoginPage(c echo.Context) error {
	data := h.authPage(c, "Sign in")
	if data.User != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, "login.html", data)
}

func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	data := h.authPage(c, "Sign in")

	var req models.LoginRequest
	_ = c.Bind(&req)
	req.Email = strings.TrimSpace(req.Email)
	data.Email = req.Email

	if err := c.Validate(&req); err != nil {
		if wantsJSON(c) {
			return authError(c, http.StatusBadRequest, validationMessage(err))
		}
		data.Error = validationMessage(err)
		return c.Render(http.StatusBadRequest, "login.html", data)
	}

	user, err := h.auth.Login(ctx, SessionID(c), c.RealIP(), req)
	if err != nil {
		status := authStatus(err)
		msg := models.UserMessage(err, MsgAuthUnavailable)
		if wantsJSON(c) {
			return authError(c, status, msg)
		}
		data.Error = msg
		return c.Render(status, "login.html", data)
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, user)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) RegisterPage(c echo.Context) error {
	data := h.authPage(c, "Create account")
	if data.User != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, "register.html", data)
}

func (h *Handler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	data := h.authPage(c, "Create account")

	var req models.RegisterRequest
	_ = c.Bind(&req)
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	data.Email, data.FirstName, data.LastName = req.Email, req.FirstName, req.LastName

	if err := c.Validate(&req); err != nil {
		if wantsJSON(c) {
			return authError(c, http.StatusBadRequest, validationMessage(err))
		}
		data.Error = validationMessage(err)
		return c.Render(http.StatusBadRequest, "register.html", data)
	}

	user, err := h.auth.Register(ctx, SessionID(c), c.RealIP(), req)
	if err != nil {
		status := authStatus(err)
		msg := models.UserMessage(err, MsgAuthUnavailable)
		if wantsJSON(c) {
			return authError(c, status, msg)
		}
		data.Error = msg
		return c.Render(status, "register.html", data)
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusCreated, user)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), SessionID(c)); err != nil {
		return h.serverError(c, err)
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, models.MessageResponse{Success: true})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// OAuthStart sends the visitor to the identity broker, which comes back to
// /auth/callback with the broker session id in the URL fragment.
func (h *Handler) OAuthStart(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.oauth.OAuthLoginURL(h.callbackURL()))
}

// OAuthCallback serves the page whose script reads the fragment, which the
// server never sees.
func (h *Handler) OAuthCallback(c echo.Context) error {
	return c.Render(http.StatusOK, "oauth_callback.html", h.base(c, "Signing you in"))
}

type oauthSessionRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) OAuthSession(c echo.Context) error {
	var req oauthSessionRequest
	if err := c.Bind(&req); err != nil {
		return authError(c, http.StatusBadRequest, "Failed to parse request body: "+err.Error())
	}
	user, err := h.auth.OAuthCallback(c.Request().Context(), SessionID(c), c.RealIP(), req.SessionID)
	if err != nil {
		if !handled(err) {
			return h.serverError(c, err)
		}
		return authError(c, authStatus(err), models.UserMessage(err, MsgAuthUnavailable))
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ForgotPasswordPage(c echo.Context) error {
	return c.Render(http.StatusOK, "forgot.html", h.authPage(c, "Forgot password"))
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	data := h.authPage(c, "Forgot password")

	var req models.ForgotPasswordRequest
	_ = c.Bind(&req)
	data.Email = strings.TrimSpace(req.Email)

	if err := c.Validate(&req); err != nil {
		data.Error = validationMessage(err)
		return c.Render(http.StatusBadRequest, "forgot.html", data)
	}

	msg, err := h.auth.ForgotPassword(c.Request().Context(), req)
	if err != nil {
		data.Error = models.UserMessage(err, MsgAuthUnavailable)
		return c.Render(authStatus(err), "forgot.html", data)
	}
	data.Notice = msg
	return c.Render(http.StatusOK, "forgot.html", data)
}

// ResetPasswordPage only shows the form for a token the API still accepts.
func (h *Handler) ResetPasswordPage(c echo.Context) error {
	data := h.authPage(c, "Reset password")
	data.Token = c.QueryParam("token")

	status, err := h.auth.CheckResetToken(c.Request().Context(), data.Token)
	switch {
	case errors.Is(err, models.ErrAuthFailed):
		return c.Render(http.StatusOK, "reset_invalid.html", data)
	case err != nil:
		data.Error = models.UserMessage(err, MsgAuthUnavailable)
		return c.Render(http.StatusBadGateway, "reset_retry.html", data)
	}
	if !status.Valid {
		return c.Render(http.StatusOK, "reset_invalid.html", data)
	}
	data.Email = status.Email
	return c.Render(http.StatusOK, "reset.html", data)
}

func (h *Handler) ResetPassword(c echo.Context) error {
	data := h.authPage(c, "Reset password")

	var req models.ResetPasswordRequest
	_ = c.Bind(&req)
	data.Token = req.Token

	if err := c.Validate(&req); err != nil {
		data.Error = validationMessage(err)
		return c.Render(http.StatusBadRequest, "reset.html", data)
	}

	msg, err := h.auth.ResetPassword(c.Request().Context(), req)
	switch {
	case errors.Is(err, models.ErrAuthFailed):
		return c.Render(http.StatusOK, "reset_invalid.html", data)
	case err != nil:
		data.Error = models.UserMessage(err, MsgAuthUnavailable)
		return c.Render(http.StatusBadGateway, "reset.html", data)
	}

	done := h.authPage(c, "Sign in")
	done.Notice = msg
	return c.Render(http.StatusOK, "login.html", done)
}
