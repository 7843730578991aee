package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/auth"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

const sessionContextKey = "session_id"

// SessionManager gives every visitor a signed session cookie. The cookie is
// re-signed on each request so active sessions slide forward.
type SessionManager struct {
	signer     *auth.CookieSigner
	cookieName string
	secure     bool
}

func NewSessionManager(signer *auth.CookieSigner, cookieName string, secure bool) *SessionManager {
	return &SessionManager{
		signer:     signer,
		cookieName: cookieName,
		secure:     secure,
	}
}

func (m *SessionManager) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sid := ""
		if cookie, err := c.Cookie(m.cookieName); err == nil {
			sid, _ = m.signer.Verify(cookie.Value)
		}
		if sid == "" {
			sid = auth.NewSessionID()
		}

		value, err := m.signer.Sign(sid)
		if err != nil {
			return err
		}
		c.SetCookie(&http.Cookie{
			Name:     m.cookieName,
			Value:    value,
			Path:     "/",
			MaxAge:   int(m.signer.TTL().Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(sessionContextKey, sid)

		req := c.Request()
		if log := logger.FromContext(req.Context(), nil); log != nil {
			c.SetRequest(req.WithContext(log.WithSessionID(sid).WithContext(req.Context())))
		}
		return next(c)
	}
}

// SessionID returns the id set by SessionManager.Middleware.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionContextKey).(string)
	return sid
}

// RequestLogger logs every request through the structured logger and
// stores a logger tagged with the request id in the request context.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			scoped := log.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID))
			c.SetRequest(req.WithContext(scoped.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.LogHTTPRequest(c, time.Since(start))
			return nil
		}
	}
}
