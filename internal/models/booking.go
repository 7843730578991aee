package models

type PassengerType string

const (
	PassengerAdult  PassengerType = "ADULT"
	PassengerYouth  PassengerType = "YOUTH"
	PassengerChild  PassengerType = "CHILD"
	PassengerInfant PassengerType = "INFANT"
)

func (t PassengerType) Label() string {
	switch t {
	case PassengerAdult:
		return "Adult"
	case PassengerYouth:
		return "Youth"
	case PassengerChild:
		return "Child"
	case PassengerInfant:
		return "Infant"
	default:
		return string(t)
	}
}

type Passenger struct {
	Type        PassengerType `json:"type"`
	Title       string        `json:"title"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	DateOfBirth string        `json:"date_of_birth"`
	Gender      string        `json:"gender"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
}

func (p Passenger) FullName() string {
	name := p.FirstName + " " + p.LastName
	if p.Title != "" {
		name = p.Title + " " + name
	}
	return name
}

type ContactInfo struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type BookingRequest struct {
	FlightID   string          `json:"flight_id"`
	Flight     FlightOffer     `json:"flight"`
	Passengers []Passenger     `json:"passengers"`
	Contact    ContactInfo     `json:"contact"`
	Counts     PassengerCounts `json:"passenger_counts"`
	TotalPrice float64         `json:"total_price"`
	Currency   string          `json:"currency"`
}

type SentEmail struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// BookingResponse is the raw answer of the booking endpoint. Success is only
// trusted when explicitly true.
type BookingResponse struct {
	Success bool        `json:"success"`
	PNR     string      `json:"pnr,omitempty"`
	Emails  []SentEmail `json:"emails,omitempty"`
	Message string      `json:"message,omitempty"`
}

type BookingResult struct {
	PNR     string      `json:"pnr"`
	Emails  []SentEmail `json:"emails"`
	Success bool        `json:"success"`
}
