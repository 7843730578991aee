// Package page owns the state of the flight search page for one visitor:
// which view is showing and the data behind it. Handlers translate requests
// into Commands; the Controller applies them and persists the result.
package page

import (
	"context"
	"errors"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/booking"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/pricematrix"
	"github.com/dharmasatrya/flightbooking/internal/session"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

const MsgSearchFailed = "We couldn't search flights right now. Please try again."

var (
	ErrInvalidCommand = errors.New("page: command not available in the current view")
	ErrOfferNotFound  = errors.New("page: flight is no longer in the results")
)

type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, error)
}

type Controller struct {
	searcher  Searcher
	submitter booking.Submitter
	store     session.Store
	log       *logger.Logger
	now       func() time.Time
}

func NewController(searcher Searcher, submitter booking.Submitter, store session.Store, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Controller{
		searcher:  searcher,
		submitter: submitter,
		store:     store,
		log:       log,
		now:       time.Now,
	}
}

// logFor prefers the request-scoped logger carried by ctx.
func (c *Controller) logFor(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx, c.log)
}

func stateKey(sid string) string {
	return "page:" + sid
}

// Load restores the visitor's state. A missing or unreadable session starts
// over at Idle.
func (c *Controller) Load(ctx context.Context, sid string) (*State, error) {
	st := NewState()
	err := c.store.Load(ctx, stateKey(sid), st)
	if err == nil {
		return st, nil
	}
	if errors.Is(err, session.ErrNotFound) {
		return NewState(), nil
	}
	if errors.Is(err, session.ErrCorrupt) {
		c.logFor(ctx).WithError(err).WarnContext(ctx, "Discarding unreadable page state")
		return NewState(), nil
	}
	return nil, err
}

// Resume reruns a search that was interrupted while in flight. Other views
// are returned unchanged.
func (c *Controller) Resume(ctx context.Context, sid string) (*State, error) {
	st, err := c.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	s, ok := st.View.(Searching)
	if !ok {
		return st, nil
	}
	return c.Dispatch(ctx, sid, SubmitSearch{Request: s.Request})
}

// Dispatch applies cmd to the visitor's state. The returned state is always
// renderable. ErrInvalidCommand and ErrOfferNotFound leave the stored state
// untouched; any other error has already been folded into the returned
// state (and saved) so the page can show it.
func (c *Controller) Dispatch(ctx context.Context, sid string, cmd Command) (*State, error) {
	st, err := c.Load(ctx, sid)
	if err != nil {
		return nil, err
	}

	if _, ok := cmd.(GoHome); ok {
		return c.reset(ctx, sid)
	}

	outcome, err := c.apply(ctx, sid, st, cmd)
	if errors.Is(err, ErrInvalidCommand) || errors.Is(err, ErrOfferNotFound) {
		return st, err
	}
	if outcome.reset {
		return c.reset(ctx, sid)
	}
	if saveErr := c.Save(ctx, sid, st); saveErr != nil {
		return st, saveErr
	}
	return st, err
}

func (c *Controller) Save(ctx context.Context, sid string, st *State) error {
	return c.store.Save(ctx, stateKey(sid), st)
}

func (c *Controller) reset(ctx context.Context, sid string) (*State, error) {
	if err := c.store.Delete(ctx, stateKey(sid)); err != nil {
		return NewState(), err
	}
	return NewState(), nil
}

type outcome struct {
	reset bool
}

func (c *Controller) apply(ctx context.Context, sid string, st *State, cmd Command) (outcome, error) {
	switch cmd := cmd.(type) {
	case SubmitSearch:
		return outcome{}, c.submitSearch(ctx, sid, st, cmd.Request)

	case SelectFlight:
		v, ok := st.View.(Results)
		if !ok {
			return outcome{}, ErrInvalidCommand
		}
		offer, found := models.FindOffer(v.Offers, cmd.OfferID)
		if !found {
			return outcome{}, ErrOfferNotFound
		}
		return outcome{}, c.startBooking(st, v, offer)

	case SelectMatrixCell:
		v, ok := st.View.(Results)
		if !ok {
			return outcome{}, ErrInvalidCommand
		}
		offer, found := pricematrix.Build(v.Offers).Cell(cmd.Depart, cmd.Return)
		if !found {
			return outcome{}, ErrOfferNotFound
		}
		return outcome{}, c.startBooking(st, v, offer)

	case ModifySearch:
		req, ok := requestOf(st.View)
		if !ok {
			return outcome{}, ErrInvalidCommand
		}
		if b, isBooking := st.View.(Booking); isBooking && b.Wizard.Step == booking.StepConfirmation {
			return outcome{}, ErrInvalidCommand
		}
		st.View = Idle{Request: req, Fares: Fares(st.View)}
		return outcome{}, nil

	case DismissError:
		v, ok := st.View.(Error)
		if !ok {
			return outcome{}, ErrInvalidCommand
		}
		st.View = Idle{Request: v.Request}
		return outcome{}, nil

	case CancelBooking:
		v, ok := st.View.(Booking)
		if !ok || v.Wizard.Step == booking.StepConfirmation {
			return outcome{}, ErrInvalidCommand
		}
		st.View = Results{Request: v.Request, Offers: v.Offers}
		return outcome{}, nil

	case ContinueBooking:
		return c.withWizard(st, func(w *booking.Wizard) error { return w.Continue() })

	case BackToItinerary:
		return c.withWizard(st, func(w *booking.Wizard) error { return w.Back() })

	case UpdateRoster:
		v, ok := st.View.(Booking)
		if !ok {
			return outcome{}, ErrInvalidCommand
		}
		if err := v.Wizard.SetCounts(cmd.Counts); err != nil {
			if errors.Is(err, booking.ErrInvalidTransition) {
				return outcome{}, ErrInvalidCommand
			}
			v.Wizard.Error = models.UserMessage(err, err.Error())
			st.View = v
			return outcome{}, err
		}
		v.Wizard.Error = ""
		v.Request.Passengers = v.Wizard.Counts
		st.View = v
		return outcome{}, nil

	case SubmitBooking:
		return outcome{}, c.submitBooking(ctx, st, cmd)

	case CompleteBooking:
		v, ok := st.View.(Booking)
		if !ok || v.Wizard.SearchNew() != nil {
			return outcome{}, ErrInvalidCommand
		}
		return outcome{reset: true}, nil
	}

	return outcome{}, ErrInvalidCommand
}

func (c *Controller) withWizard(st *State, fn func(w *booking.Wizard) error) (outcome, error) {
	v, ok := st.View.(Booking)
	if !ok {
		return outcome{}, ErrInvalidCommand
	}
	if err := fn(v.Wizard); err != nil {
		return outcome{}, ErrInvalidCommand
	}
	st.View = v
	return outcome{}, nil
}

func (c *Controller) submitSearch(ctx context.Context, sid string, st *State, req models.SearchRequest) error {
	switch st.View.(type) {
	case Idle, Error, Results, Searching:
	default:
		return ErrInvalidCommand
	}

	if err := req.Validate(); err != nil {
		st.View = Idle{Request: &req, Message: models.UserMessage(err, err.Error())}
		return err
	}

	st.View = Searching{Request: req}
	if err := c.Save(ctx, sid, st); err != nil {
		return err
	}

	offers, err := c.searcher.Search(ctx, req)
	if err != nil {
		c.logFor(ctx).WithError(err).WarnContext(ctx, "Flight search failed", "route", req.Route())
		st.View = Error{Request: &req, Message: models.UserMessage(err, MsgSearchFailed)}
		return err
	}

	st.View = Results{Request: req, Offers: offers}
	return nil
}

func (c *Controller) startBooking(st *State, v Results, offer models.FlightOffer) error {
	w, err := booking.New(offer, v.Request.Passengers)
	if err != nil {
		return err
	}
	st.View = Booking{Request: v.Request, Offers: v.Offers, Wizard: w}
	return nil
}

func (c *Controller) submitBooking(ctx context.Context, st *State, cmd SubmitBooking) error {
	v, ok := st.View.(Booking)
	if !ok {
		return ErrInvalidCommand
	}
	w := v.Wizard
	if err := w.UpdatePassengers(cmd.Passengers); err != nil {
		if errors.Is(err, booking.ErrRosterMismatch) {
			w.Error = "The passenger list changed. Please check the details and try again."
			return err
		}
		return ErrInvalidCommand
	}
	if err := w.UpdateContact(cmd.Contact); err != nil {
		return ErrInvalidCommand
	}

	err := w.Complete(ctx, c.submitter, c.now())
	switch {
	case err == nil:
		c.logFor(ctx).LogBookingSubmitted(ctx, w.Result.PNR, w.Offer.ID, len(w.Passengers))
	case errors.Is(err, models.ErrValidation):
	default:
		c.logFor(ctx).LogBookingFailed(ctx, w.Offer.ID, err)
	}
	st.View = v
	return err
}

// requestOf returns the search behind the current view, if any.
func requestOf(v View) (*models.SearchRequest, bool) {
	switch v := v.(type) {
	case Results:
		return &v.Request, true
	case Booking:
		return &v.Request, true
	case Error:
		return v.Request, true
	case Idle:
		return v.Request, true
	}
	return nil, false
}
