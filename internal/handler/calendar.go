package handler

import (
	"context"
	"errors"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/calendar"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/page"
	"github.com/dharmasatrya/flightbooking/internal/session"
)

const (
	EventClick   = "click"
	EventPress   = "press"
	EventMove    = "move"
	EventRelease = "release"
	EventReset   = "reset"
	EventView    = "view"
)

type calendarRequest struct {
	Event    string         `json:"event" validate:"required,oneof=click press move release reset view"`
	Date     string         `json:"date"`
	TripType string         `json:"trip_type"`
	Month    string         `json:"month"`
	Fares    calendar.Fares `json:"fares"`
}

// calendarResponse reports Complete only on the gesture that finished a
// selection. Ready stays true while a full selection is held.
type calendarResponse struct {
	Depart   string          `json:"depart,omitempty"`
	Return   string          `json:"return,omitempty"`
	Preview  string          `json:"preview,omitempty"`
	Dragging bool            `json:"dragging"`
	Complete bool            `json:"complete"`
	Ready    bool            `json:"ready"`
	Month    string          `json:"month"`
	Weeks    []calendar.Week `json:"weeks"`
}

func calendarKey(sid string) string {
	return "calendar:" + sid
}

// calendarLocks serialises the load-apply-save of gestures that belong to
// the same session within this process.
type calendarLocks [64]sync.Mutex

func (l *calendarLocks) lock(sid string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	m := &l[h.Sum32()%uint32(len(l))]
	m.Lock()
	return m.Unlock
}

// knownFares is the cheapest fare per day from the visitor's last search.
func (h *Handler) knownFares(ctx context.Context, sid string) calendar.Fares {
	st, err := h.pages.Load(ctx, sid)
	if err != nil {
		h.logFor(ctx).WithError(err).WarnContext(ctx, "Calendar fares unavailable")
		return nil
	}
	return page.Fares(st.View)
}

func dayString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateLayout)
}

// Calendar applies one pointer gesture to the visitor's date picker and
// returns the redrawn month.
func (h *Handler) Calendar(c echo.Context) error {
	ctx := c.Request().Context()

	var req calendarRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Unknown calendar event.",
			Code:    http.StatusBadRequest,
		})
	}

	now := h.now()
	oneWay := models.TripType(req.TripType) == models.TripOneWay

	var day time.Time
	needsDay := req.Event == EventClick || req.Event == EventPress || req.Event == EventMove
	if needsDay || (req.Event == EventRelease && oneWay && req.Date != "") {
		d, err := calendar.ParseDay(req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "validation_error",
				Message: "Dates must use the YYYY-MM-DD format.",
				Code:    http.StatusBadRequest,
			})
		}
		day = d
	}

	sid := SessionID(c)
	unlock := h.calendarLocks.lock(sid)
	defer unlock()

	key := calendarKey(sid)
	picker := calendar.NewPicker(oneWay, now)
	if err := h.calendars.Load(ctx, key, picker); err != nil && !errors.Is(err, session.ErrNotFound) {
		h.logFor(ctx).WithError(err).WarnContext(ctx, "Discarding unreadable calendar state")
		picker = calendar.NewPicker(oneWay, now)
	}
	picker.Today = calendar.Day(now)
	picker.SetOneWay(oneWay)

	selected := false
	switch req.Event {
	case EventClick:
		selected = picker.Click(day)
	case EventPress:
		picker.Press(day)
	case EventMove:
		picker.Move(day)
	case EventRelease:
		// One-way pickers have no drag; releasing over a day picks it.
		if oneWay && !day.IsZero() {
			selected = picker.Click(day)
		} else {
			selected = picker.Release()
		}
	case EventReset:
		picker.Reset()
	}

	if err := h.calendars.Save(ctx, key, picker); err != nil {
		return h.serverError(c, err)
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		month = calendar.Day(now)
		if d := picker.PendingDepart(); d != nil {
			month = *d
		}
	}

	fares := req.Fares
	if len(fares) == 0 {
		fares = h.knownFares(ctx, sid)
	}

	return c.JSON(http.StatusOK, calendarResponse{
		Depart:   dayString(picker.PendingDepart()),
		Return:   dayString(picker.Return),
		Preview:  dayString(picker.Preview),
		Dragging: picker.Dragging,
		Complete: selected,
		Ready:    picker.Complete(),
		Month:    month.Format("2006-01"),
		Weeks:    picker.Month(month.Year(), month.Month(), fares),
	})
}
