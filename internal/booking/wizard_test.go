package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/roster"
)

type fakeSubmitter struct {
	resp  *models.BookingResponse
	err   error
	calls int
	last  models.BookingRequest
}

func (f *fakeSubmitter) SubmitBooking(_ context.Context, req models.BookingRequest) (*models.BookingResponse, error) {
	f.calls++
	f.last = req
	return f.resp, f.err
}

var today = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

func offer() models.FlightOffer {
	return models.FlightOffer{
		ID:          "LHR-JFK-1",
		Origin:      "LHR",
		Destination: "JFK",
		Price:       1000,
		Currency:    "GBP",
	}
}

func filledWizard(t *testing.T) *Wizard {
	t.Helper()
	w, err := New(offer(), models.PassengerCounts{Adults: 1, Children: 1})
	require.NoError(t, err)
	require.NoError(t, w.Continue())
	require.NoError(t, w.UpdatePassengers([]models.Passenger{
		{Title: "Mr", FirstName: "Alan", LastName: "Turing", DateOfBirth: "1980-06-23", Gender: "male", Email: "alan@example.com"},
		{Title: "Miss", FirstName: "Ada", LastName: "Turing", DateOfBirth: "2018-03-01", Gender: "female", Email: "dropped@example.com"},
	}))
	require.NoError(t, w.UpdateContact(models.ContactInfo{Email: "alan@example.com", Phone: "+44 1234"}))
	return w
}

func TestNewBuildsRosterAndBreakdown(t *testing.T) {
	w, err := New(offer(), models.PassengerCounts{Adults: 2, Youth: 1, Children: 1})
	require.NoError(t, err)

	assert.Equal(t, StepItinerary, w.Step)
	assert.Len(t, w.Passengers, 4)
	assert.Equal(t, 1000.0, w.Breakdown.GrandTotal)
	assert.InDelta(t, 250, w.Breakdown.Adult.Unit, 1e-9)

	_, err = New(offer(), models.PassengerCounts{Adults: 1, Infants: 2})
	assert.ErrorIs(t, err, models.ErrTooManyInfants)
}

func TestTransitions(t *testing.T) {
	w, err := New(offer(), models.PassengerCounts{Adults: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
	require.NoError(t, w.Continue())
	assert.Equal(t, StepPassengers, w.Step)
	assert.ErrorIs(t, w.Continue(), ErrInvalidTransition)

	require.NoError(t, w.UpdatePassengers([]models.Passenger{{FirstName: "Keep"}}))
	require.NoError(t, w.Back())
	assert.Equal(t, StepItinerary, w.Step)
	assert.Equal(t, "Keep", w.Passengers[0].FirstName)

	assert.ErrorIs(t, w.SearchNew(), ErrInvalidTransition)
}

func TestUpdatePassengersKeepsTypes(t *testing.T) {
	w := filledWizard(t)
	assert.Equal(t, models.PassengerAdult, w.Passengers[0].Type)
	assert.Equal(t, models.PassengerChild, w.Passengers[1].Type)
	assert.Empty(t, w.Passengers[1].Email)

	assert.ErrorIs(t, w.UpdatePassengers(nil), ErrRosterMismatch)
}

func TestSetCountsRebuildsRoster(t *testing.T) {
	w := filledWizard(t)
	require.NoError(t, w.SetCounts(models.PassengerCounts{Adults: 2}))

	assert.Len(t, w.Passengers, 2)
	assert.Empty(t, w.Passengers[0].FirstName)
	assert.Equal(t, 2, w.Breakdown.Adult.Count)
}

func TestCompleteValidationFailure(t *testing.T) {
	w := filledWizard(t)
	w.Passengers[1].Gender = ""
	sub := &fakeSubmitter{}

	err := w.Complete(context.Background(), sub, today)
	var missing *roster.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 2, missing.Index)
	assert.Equal(t, StepPassengers, w.Step)
	assert.NotEmpty(t, w.Error)
	assert.Zero(t, sub.calls)
}

func TestCompleteSuccess(t *testing.T) {
	w := filledWizard(t)
	sub := &fakeSubmitter{resp: &models.BookingResponse{
		Success: true,
		PNR:     "ABC123",
		Emails:  []models.SentEmail{{Recipient: "alan@example.com", Subject: "Your booking"}},
	}}

	require.NoError(t, w.Complete(context.Background(), sub, today))
	assert.Equal(t, StepConfirmation, w.Step)
	require.NotNil(t, w.Result)
	assert.Equal(t, "ABC123", w.Result.PNR)
	assert.Len(t, w.Result.Emails, 1)

	assert.Equal(t, "LHR-JFK-1", sub.last.FlightID)
	assert.Equal(t, 1000.0, sub.last.TotalPrice)
	assert.Equal(t, "GBP", sub.last.Currency)
	assert.Len(t, sub.last.Passengers, 2)

	assert.NoError(t, w.SearchNew())
	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, w.SetCounts(models.PassengerCounts{Adults: 3}), ErrInvalidTransition)
}

func TestCompleteFalsySuccess(t *testing.T) {
	tests := []struct {
		name string
		resp *models.BookingResponse
		want string
	}{
		{"server message", &models.BookingResponse{Success: false, Message: "Fare no longer available"}, "Fare no longer available"},
		{"no message", &models.BookingResponse{}, MsgBookingFailed},
		{"empty body", nil, MsgBookingFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := filledWizard(t)
			err := w.Complete(context.Background(), &fakeSubmitter{resp: tt.resp}, today)

			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrRequestFailed))
			assert.Equal(t, StepPassengers, w.Step)
			assert.Equal(t, tt.want, w.Error)
			assert.Nil(t, w.Result)
		})
	}
}

func TestCompleteTransportFailureIsRetryable(t *testing.T) {
	w := filledWizard(t)
	sub := &fakeSubmitter{err: errors.New("dial tcp: connection refused")}

	err := w.Complete(context.Background(), sub, today)
	require.Error(t, err)
	assert.Equal(t, MsgRetry, w.Error)
	assert.Equal(t, StepPassengers, w.Step)

	sub.err = nil
	sub.resp = &models.BookingResponse{Success: true, PNR: "XYZ789"}
	require.NoError(t, w.Complete(context.Background(), sub, today))
	assert.Equal(t, 2, sub.calls)
	assert.Empty(t, w.Error)
}
