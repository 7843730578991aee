// Package document turns a priced itinerary, its passengers and the fare
// breakdown into a printable document. Build produces a plain model; the
// HTML and PDF renderers only lay it out.
package document

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/fare"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/pkg/currency"
)

type Kind string

const (
	KindItinerary    Kind = "itinerary"
	KindConfirmation Kind = "confirmation"
)

const (
	timeLayout   = "Mon 02 Jan 2006, 15:04"
	issuedLayout = "02 Jan 2006 15:04 MST"
	brand        = "FlightBooker"
)

type FlightBlock struct {
	Label       string
	Airline     string
	Flight      string
	Origin      string
	Destination string
	Departure   string
	Arrival     string
	Duration    string
	Stops       string
	Layover     string
}

type PassengerRow struct {
	No          int
	Name        string
	Type        string
	DateOfBirth string
	Gender      string
}

type FareRow struct {
	Label    string
	Unit     string
	Subtotal string
}

type Field struct {
	Label string
	Value string
}

type Document struct {
	Kind       Kind
	Title      string
	Reference  string
	Issued     string
	Route      string
	Flights    []FlightBlock
	Passengers []PassengerRow
	Fares      []FareRow
	Total      string
	Contact    []Field
	Footer     string
}

type Input struct {
	Offer      models.FlightOffer
	Passengers []models.Passenger
	Breakdown  fare.Breakdown
	Contact    models.ContactInfo
	Result     *models.BookingResult
	Now        time.Time
}

// Build assembles the document for kind. A confirmation carries the PNR from
// in.Result; an itinerary has no reference.
func Build(kind Kind, in Input) Document {
	o := in.Offer
	doc := Document{
		Kind:   kind,
		Title:  "Flight Itinerary",
		Issued: in.Now.Format(issuedLayout),
		Route:  o.Origin + " - " + o.Destination,
		Total:  currency.Format(in.Breakdown.GrandTotal, in.Breakdown.Currency),
		Footer: brand + " · Times shown are local to each airport. Please arrive at least 2 hours before departure.",
	}
	if o.HasReturn() {
		doc.Route = o.Origin + " - " + o.Destination + " - " + o.Origin
	}

	if kind == KindConfirmation {
		doc.Title = "Booking Confirmation"
		if in.Result != nil {
			doc.Reference = in.Result.PNR
		}
	}

	doc.Flights = append(doc.Flights, FlightBlock{
		Label:       "Outbound",
		Airline:     o.Airline.Name,
		Flight:      o.FlightNumber,
		Origin:      o.Origin,
		Destination: o.Destination,
		Departure:   o.DepartureTime.Format(timeLayout),
		Arrival:     o.ArrivalTime.Format(timeLayout),
		Duration:    models.FormatDuration(o.DurationMinutes()),
		Stops:       stopsLabel(o.Stops),
		Layover:     o.Layover,
	})
	if r := o.Return; r != nil {
		minutes, _ := models.ParseDurationMinutes(r.Duration)
		doc.Flights = append(doc.Flights, FlightBlock{
			Label:       "Return",
			Airline:     o.Airline.Name,
			Flight:      r.FlightNumber,
			Origin:      r.Origin,
			Destination: r.Destination,
			Departure:   r.DepartureTime.Format(timeLayout),
			Arrival:     r.ArrivalTime.Format(timeLayout),
			Duration:    models.FormatDuration(minutes),
			Stops:       stopsLabel(r.Stops),
			Layover:     r.Layover,
		})
	}

	for i, p := range in.Passengers {
		name := p.FullName()
		if p.FirstName == "" && p.LastName == "" {
			name = "Passenger " + strconv.Itoa(i+1)
		}
		doc.Passengers = append(doc.Passengers, PassengerRow{
			No:          i + 1,
			Name:        name,
			Type:        p.Type.Label(),
			DateOfBirth: dash(p.DateOfBirth),
			Gender:      dash(p.Gender),
		})
	}

	for _, l := range in.Breakdown.Lines() {
		doc.Fares = append(doc.Fares, FareRow{
			Label:    fmt.Sprintf("%s × %d", l.Type.Label(), l.Count),
			Unit:     currency.Format(l.Unit, in.Breakdown.Currency),
			Subtotal: currency.Format(l.Subtotal, in.Breakdown.Currency),
		})
	}

	c := in.Contact
	for _, f := range []Field{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Address", c.Address},
		{"City", c.City},
		{"Postal code", c.PostalCode},
		{"Country", c.Country},
	} {
		if f.Value != "" {
			doc.Contact = append(doc.Contact, f)
		}
	}

	return doc
}

func stopsLabel(n int) string {
	switch n {
	case 0:
		return "Direct"
	case 1:
		return "1 stop"
	default:
		return strconv.Itoa(n) + " stops"
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
