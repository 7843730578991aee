// Package booking drives the three-step booking flow: itinerary review,
// passenger details and confirmation.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/fare"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/roster"
)

type Step int

const (
	StepItinerary Step = iota
	StepPassengers
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepItinerary:
		return "itinerary"
	case StepPassengers:
		return "passengers"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

const (
	MsgBookingFailed = "Booking failed. Please try again."
	MsgRetry         = "We could not reach the booking service. Please check your connection and try again."
)

var (
	ErrInvalidTransition = errors.New("booking: action not allowed at this step")
	ErrRosterMismatch    = errors.New("booking: passenger list does not match the roster")
)

type Submitter interface {
	SubmitBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error)
}

// Wizard holds the whole flow state. It is plain data so it can be stored in
// the visitor session between requests.
type Wizard struct {
	Step       Step                   `json:"step"`
	Offer      models.FlightOffer     `json:"offer"`
	Counts     models.PassengerCounts `json:"counts"`
	Passengers []models.Passenger     `json:"passengers"`
	Contact    models.ContactInfo     `json:"contact"`
	Breakdown  fare.Breakdown         `json:"breakdown"`
	Result     *models.BookingResult  `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

func New(offer models.FlightOffer, counts models.PassengerCounts) (*Wizard, error) {
	w := &Wizard{
		Step:  StepItinerary,
		Offer: offer,
	}
	if err := w.resize(counts); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Wizard) resize(counts models.PassengerCounts) error {
	if counts.Adults < 1 {
		counts.Adults = 1
	}
	if counts.Infants > counts.Adults {
		return models.ErrTooManyInfants
	}
	breakdown, err := fare.Calculate(w.Offer.Price, counts, w.Offer.Currency)
	if err != nil {
		return err
	}
	w.Counts = counts
	w.Passengers = roster.Build(counts)
	w.Breakdown = breakdown
	return nil
}

// Continue moves from the itinerary review to passenger details.
func (w *Wizard) Continue() error {
	if w.Step != StepItinerary {
		return ErrInvalidTransition
	}
	w.Step = StepPassengers
	w.Error = ""
	return nil
}

// Back returns to the itinerary, keeping entered passenger data.
func (w *Wizard) Back() error {
	if w.Step != StepPassengers {
		return ErrInvalidTransition
	}
	w.Step = StepItinerary
	w.Error = ""
	return nil
}

// SetCounts rebuilds the roster for new counts. Entered passenger details are
// dropped.
func (w *Wizard) SetCounts(counts models.PassengerCounts) error {
	if w.Step == StepConfirmation {
		return ErrInvalidTransition
	}
	return w.resize(counts)
}

// UpdatePassengers copies the editable fields of ps onto the roster by
// position. Passenger types and order never change.
func (w *Wizard) UpdatePassengers(ps []models.Passenger) error {
	if w.Step != StepPassengers {
		return ErrInvalidTransition
	}
	if len(ps) != len(w.Passengers) {
		return ErrRosterMismatch
	}
	for i, p := range ps {
		p.Type = w.Passengers[i].Type
		if p.Type != models.PassengerAdult {
			p.Email, p.Phone = "", ""
		}
		w.Passengers[i] = p
	}
	return nil
}

func (w *Wizard) UpdateContact(c models.ContactInfo) error {
	if w.Step != StepPassengers {
		return ErrInvalidTransition
	}
	w.Contact = c
	return nil
}

func (w *Wizard) Request() models.BookingRequest {
	passengers := make([]models.Passenger, len(w.Passengers))
	copy(passengers, w.Passengers)
	return models.BookingRequest{
		FlightID:   w.Offer.ID,
		Flight:     w.Offer,
		Passengers: passengers,
		Contact:    w.Contact,
		Counts:     w.Counts,
		TotalPrice: w.Breakdown.GrandTotal,
		Currency:   w.Breakdown.Currency,
	}
}

// Complete validates the roster and submits the booking. The wizard only
// reaches the confirmation step on an explicit success answer; every failure
// leaves it on the passenger step with Error set, ready for another attempt.
func (w *Wizard) Complete(ctx context.Context, sub Submitter, today time.Time) error {
	if w.Step != StepPassengers {
		return ErrInvalidTransition
	}
	w.Error = ""

	if err := roster.Validate(w.Passengers, w.Contact, today); err != nil {
		w.Error = err.Error()
		return err
	}

	resp, err := sub.SubmitBooking(ctx, w.Request())
	if err != nil {
		msg := MsgRetry
		var rf *models.RequestFailure
		if errors.As(err, &rf) && rf.Status != 0 && rf.Message != "" {
			msg = rf.Message
		}
		w.Error = msg
		return &models.RequestFailure{Op: "booking", Status: statusOf(rf), Message: msg, Err: err}
	}

	if resp == nil || !resp.Success {
		msg := MsgBookingFailed
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		w.Error = msg
		return &models.RequestFailure{Op: "booking", Message: msg}
	}

	w.Result = &models.BookingResult{
		PNR:     resp.PNR,
		Emails:  resp.Emails,
		Success: true,
	}
	w.Step = StepConfirmation
	return nil
}

// SearchNew ends a confirmed booking. The owner is expected to reset the
// session afterwards.
func (w *Wizard) SearchNew() error {
	if w.Step != StepConfirmation {
		return ErrInvalidTransition
	}
	return nil
}

func statusOf(rf *models.RequestFailure) int {
	if rf == nil {
		return 0
	}
	return rf.Status
}
