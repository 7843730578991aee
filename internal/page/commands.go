package page

import "github.com/dharmasatrya/flightbooking/internal/models"

// Command is a user action sent to the Controller.
type Command interface {
	command()
}

type SubmitSearch struct {
	Request models.SearchRequest
}

type SelectFlight struct {
	OfferID string
}

// SelectMatrixCell picks the cheapest offer stored for a depart/return pair
// of the flexible-date matrix.
type SelectMatrixCell struct {
	Depart string
	Return string
}

type ModifySearch struct{}

// CancelBooking leaves the booking flow for the results list. Not available
// once the booking is confirmed.
type CancelBooking struct{}

type ContinueBooking struct{}

type BackToItinerary struct{}

type UpdateRoster struct {
	Counts models.PassengerCounts
}

// SubmitBooking saves the entered details and attempts the booking.
type SubmitBooking struct {
	Passengers []models.Passenger
	Contact    models.ContactInfo
}

// CompleteBooking is "search new flight" from the confirmation step.
type CompleteBooking struct{}

type DismissError struct{}

type GoHome struct{}

func (SubmitSearch) command()     {}
func (SelectFlight) command()     {}
func (SelectMatrixCell) command() {}
func (ModifySearch) command()     {}
func (CancelBooking) command()    {}
func (ContinueBooking) command()  {}
func (BackToItinerary) command()  {}
func (UpdateRoster) command()     {}
func (SubmitBooking) command()    {}
func (CompleteBooking) command()  {}
func (DismissError) command()     {}
func (GoHome) command()           {}
