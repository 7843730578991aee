package models

import (
	"strings"
	"time"
)

type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
	TripMultiCity TripType = "multi-city"
)

const (
	ClassEconomy        = "economy"
	ClassPremiumEconomy = "premium_economy"
	ClassBusiness       = "business"
	ClassFirst          = "first"
)

const (
	MinMultiCityLegs = 2
	MaxMultiCityLegs = 6
)

type Leg struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type PassengerCounts struct {
	Adults   int `json:"adults"`
	Youth    int `json:"youth"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func (p PassengerCounts) Total() int {
	return p.Adults + p.Youth + p.Children + p.Infants
}

type SearchRequest struct {
	TripType         TripType        `json:"trip_type"`
	Origin           string          `json:"origin,omitempty"`
	Destination      string          `json:"destination,omitempty"`
	DepartureDate    string          `json:"departure_date,omitempty"`
	ReturnDate       string          `json:"return_date,omitempty"`
	Legs             []Leg           `json:"legs,omitempty"`
	Passengers       PassengerCounts `json:"passengers"`
	TravelClass      string          `json:"travel_class"`
	DirectOnly       bool            `json:"direct_only"`
	FlexibleDates    bool            `json:"flexible_dates"`
	PreferredAirline string          `json:"preferred_airline,omitempty"`
}

// Validate normalizes defaults in place and reports the first problem found.
func (r *SearchRequest) Validate() error {
	if r.TripType == "" {
		r.TripType = TripRoundTrip
		if r.ReturnDate == "" {
			r.TripType = TripOneWay
		}
	}

	switch r.TripType {
	case TripOneWay, TripRoundTrip:
		if err := r.validateSimple(); err != nil {
			return err
		}
	case TripMultiCity:
		if err := r.validateLegs(); err != nil {
			return err
		}
	default:
		return ErrInvalidTripType
	}

	if err := r.validatePassengers(); err != nil {
		return err
	}

	if r.TravelClass == "" {
		r.TravelClass = ClassEconomy
	}
	r.TravelClass = strings.ToLower(r.TravelClass)
	r.PreferredAirline = strings.ToUpper(strings.TrimSpace(r.PreferredAirline))
	return nil
}

func (r *SearchRequest) validateSimple() error {
	r.Origin = normalizeAirport(r.Origin)
	r.Destination = normalizeAirport(r.Destination)
	r.Legs = nil

	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.Origin == r.Destination {
		return ErrSameAirports
	}
	if r.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	depart, err := time.Parse(DateLayout, r.DepartureDate)
	if err != nil {
		return ErrInvalidDate
	}

	if r.TripType == TripOneWay {
		r.ReturnDate = ""
		return nil
	}
	if r.ReturnDate == "" {
		return ErrMissingReturnDate
	}
	ret, err := time.Parse(DateLayout, r.ReturnDate)
	if err != nil {
		return ErrInvalidDate
	}
	if !ret.After(depart) {
		return ErrReturnBeforeDeparture
	}
	return nil
}

func (r *SearchRequest) validateLegs() error {
	if len(r.Legs) < MinMultiCityLegs || len(r.Legs) > MaxMultiCityLegs {
		return ErrLegCount
	}
	r.Origin, r.Destination, r.DepartureDate, r.ReturnDate = "", "", "", ""
	r.FlexibleDates = false

	var prev time.Time
	for i := range r.Legs {
		leg := &r.Legs[i]
		leg.Origin = normalizeAirport(leg.Origin)
		leg.Destination = normalizeAirport(leg.Destination)
		if leg.Origin == "" || leg.Destination == "" || leg.DepartureDate == "" {
			return ErrIncompleteLeg
		}
		if leg.Origin == leg.Destination {
			return ErrSameAirports
		}
		d, err := time.Parse(DateLayout, leg.DepartureDate)
		if err != nil {
			return ErrInvalidDate
		}
		if i > 0 && d.Before(prev) {
			return ErrLegsOutOfOrder
		}
		prev = d
	}
	return nil
}

func (r *SearchRequest) validatePassengers() error {
	p := &r.Passengers
	if p.Youth < 0 || p.Children < 0 || p.Infants < 0 {
		return ErrNegativePassengers
	}
	if p.Adults < 1 {
		p.Adults = 1
	}
	if p.Infants > p.Adults {
		return ErrTooManyInfants
	}
	return nil
}

// Route is a short label such as "LHR → JFK" or "LHR → CDG → FCO".
func (r SearchRequest) Route() string {
	if r.TripType == TripMultiCity && len(r.Legs) > 0 {
		parts := []string{r.Legs[0].Origin}
		for _, leg := range r.Legs {
			parts = append(parts, leg.Destination)
		}
		return strings.Join(parts, " → ")
	}
	return r.Origin + " → " + r.Destination
}

func normalizeAirport(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}

const (
	ErrInvalidTripType       ValidationError = "trip type must be one-way, round-trip or multi-city"
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrSameAirports          ValidationError = "origin and destination must differ"
	ErrMissingDepartureDate  ValidationError = "departure date is required"
	ErrMissingReturnDate     ValidationError = "return date is required for a round trip"
	ErrInvalidDate           ValidationError = "dates must use the YYYY-MM-DD format"
	ErrReturnBeforeDeparture ValidationError = "return date must be after the departure date"
	ErrLegCount              ValidationError = "multi-city trips need between 2 and 6 flights"
	ErrIncompleteLeg         ValidationError = "every flight needs an origin, destination and date"
	ErrLegsOutOfOrder        ValidationError = "multi-city flights must be in date order"
	ErrNegativePassengers    ValidationError = "passenger counts cannot be negative"
	ErrTooManyInfants        ValidationError = "each infant must travel with an adult"
)
