package page

import (
	"encoding/json"
	"fmt"

	"github.com/dharmasatrya/flightbooking/internal/booking"
	"github.com/dharmasatrya/flightbooking/internal/calendar"
	"github.com/dharmasatrya/flightbooking/internal/models"
)

type Kind string

const (
	KindIdle      Kind = "idle"
	KindSearching Kind = "searching"
	KindError     Kind = "error"
	KindResults   Kind = "results"
	KindBooking   Kind = "booking"
)

// View is exactly one of Idle, Searching, Error, Results or Booking.
type View interface {
	Kind() Kind
}

// Idle shows the search form, optionally prefilled from an earlier search.
// Fares keeps the cheapest price per date of that search for the calendar.
type Idle struct {
	Request *models.SearchRequest `json:"request,omitempty"`
	Message string                `json:"message,omitempty"`
	Fares   calendar.Fares        `json:"fares,omitempty"`
}

// Searching is the view while a search is outstanding. A session that is
// restored in this view had its search interrupted and is resumed.
type Searching struct {
	Request models.SearchRequest `json:"request"`
}

type Error struct {
	Request *models.SearchRequest `json:"request,omitempty"`
	Message string                `json:"message"`
}

type Results struct {
	Request models.SearchRequest `json:"request"`
	Offers  []models.FlightOffer `json:"offers"`
}

type Booking struct {
	Request models.SearchRequest `json:"request"`
	Offers  []models.FlightOffer `json:"offers"`
	Wizard  *booking.Wizard      `json:"wizard"`
}

func (Idle) Kind() Kind      { return KindIdle }
func (Searching) Kind() Kind { return KindSearching }
func (Error) Kind() Kind     { return KindError }
func (Results) Kind() Kind   { return KindResults }
func (Booking) Kind() Kind   { return KindBooking }

// Fares is the cheapest price per departure date the view knows about.
func Fares(v View) calendar.Fares {
	switch v := v.(type) {
	case Idle:
		return v.Fares
	case Results:
		return calendar.FaresFromOffers(v.Offers)
	case Booking:
		return calendar.FaresFromOffers(v.Offers)
	}
	return nil
}

// State is what gets persisted per visitor session.
type State struct {
	View View
}

func NewState() *State {
	return &State{View: Idle{}}
}

func (s *State) Kind() Kind {
	if s.View == nil {
		return KindIdle
	}
	return s.View.Kind()
}

type envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func (s State) MarshalJSON() ([]byte, error) {
	view := s.View
	if view == nil {
		view = Idle{}
	}
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: view.Kind(), Data: data})
}

func (s *State) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	var err error
	switch env.Kind {
	case KindIdle, "":
		var v Idle
		err = unmarshalData(env.Data, &v)
		s.View = v
	case KindSearching:
		var v Searching
		err = unmarshalData(env.Data, &v)
		s.View = v
	case KindError:
		var v Error
		err = unmarshalData(env.Data, &v)
		s.View = v
	case KindResults:
		var v Results
		err = unmarshalData(env.Data, &v)
		s.View = v
	case KindBooking:
		var v Booking
		err = unmarshalData(env.Data, &v)
		if err == nil && v.Wizard == nil {
			err = fmt.Errorf("page: booking view without wizard")
		}
		s.View = v
	default:
		return fmt.Errorf("page: unknown view kind %q", env.Kind)
	}
	return err
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
