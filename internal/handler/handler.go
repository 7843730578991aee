package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/auth"
	"github.com/dharmasatrya/flightbooking/internal/booking"
	"github.com/dharmasatrya/flightbooking/internal/fare"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/page"
	"github.com/dharmasatrya/flightbooking/internal/session"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

const MsgServerError = "Something went wrong on our side. Please try again."

type ContactSender interface {
	Contact(ctx context.Context, req models.ContactRequest) (*models.ContactResponse, error)
}

type OAuthLinker interface {
	OAuthLoginURL(redirect string) string
}

type Deps struct {
	Pages     *page.Controller
	Searcher  page.Searcher
	Auth      *auth.Service
	Contact   ContactSender
	OAuth     OAuthLinker
	Calendars session.Store
	Logger    *logger.Logger
	PublicURL string
}

type Handler struct {
	pages     *page.Controller
	searcher  page.Searcher
	auth      *auth.Service
	contact   ContactSender
	oauth     OAuthLinker
	calendars session.Store
	log       *logger.Logger
	publicURL string
	now       func() time.Time

	calendarLocks *calendarLocks
}

func New(d Deps) *Handler {
	log := d.Logger
	if log == nil {
		log = logger.GetDefault()
	}
	return &Handler{
		pages:     d.Pages,
		searcher:  d.Searcher,
		auth:      d.Auth,
		contact:   d.Contact,
		oauth:     d.OAuth,
		calendars: d.Calendars,
		log:       log,
		publicURL: strings.TrimRight(d.PublicURL, "/"),
		now:       time.Now,

		calendarLocks: new(calendarLocks),
	}
}

type baseData struct {
	Title   string
	User    *models.User
	Notice  string
	Error   string
	Request string
}

func (h *Handler) base(c echo.Context, title string) baseData {
	ctx := c.Request().Context()
	user, err := h.auth.Restore(ctx, SessionID(c))
	if err != nil {
		h.logFor(ctx).WithError(err).WarnContext(ctx, "Could not restore signed-in user")
	}
	return baseData{
		Title:   title,
		User:    user,
		Request: c.Response().Header().Get(echo.HeaderXRequestID),
	}
}

// logFor prefers the request-scoped logger set up by RequestLogger.
func (h *Handler) logFor(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx, h.log)
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// handled reports whether err is an outcome the page already shows to the
// visitor, as opposed to an infrastructure failure.
func handled(err error) bool {
	for _, target := range []error{
		models.ErrValidation,
		models.ErrRequestFailed,
		models.ErrAuthFailed,
		page.ErrInvalidCommand,
		page.ErrOfferNotFound,
		booking.ErrRosterMismatch,
		fare.ErrNoPassengers,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// dispatch runs cmd for the visitor and answers with the new state (JSON
// clients) or a redirect back to the page (browsers).
func (h *Handler) dispatch(c echo.Context, cmd page.Command) error {
	ctx := c.Request().Context()
	st, err := h.pages.Dispatch(ctx, SessionID(c), cmd)
	if err != nil && !handled(err) {
		return h.serverError(c, err)
	}

	if wantsJSON(c) {
		status := http.StatusOK
		switch {
		case errors.Is(err, page.ErrInvalidCommand):
			status = http.StatusConflict
		case errors.Is(err, page.ErrOfferNotFound):
			status = http.StatusNotFound
		case errors.Is(err, models.ErrValidation), errors.Is(err, booking.ErrRosterMismatch):
			status = http.StatusUnprocessableEntity
		case err != nil:
			status = http.StatusBadGateway
		}
		return c.JSON(status, st)
	}

	if err != nil {
		h.logFor(ctx).WithError(err).DebugContext(ctx, "Command not applied cleanly")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) serverError(c echo.Context, err error) error {
	h.logFor(c.Request().Context()).LogHTTPError(c, err, http.StatusInternalServerError)
	if wantsJSON(c) || strings.HasPrefix(c.Path(), "/api/") {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: MsgServerError,
			Code:    http.StatusInternalServerError,
		})
	}
	return c.String(http.StatusInternalServerError, MsgServerError)
}

func (h *Handler) callbackURL() string {
	return h.publicURL + "/auth/callback"
}
