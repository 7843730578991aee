package models

import "time"

const CurrencyGBP = "GBP"

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// ReturnLeg mirrors the outbound fields of a FlightOffer for round trips.
type ReturnLeg struct {
	FlightNumber  string    `json:"flight_number,omitempty"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Duration      string    `json:"duration"`
	Stops         int       `json:"stops"`
	Layover       string    `json:"layover,omitempty"`
}

// FlightOffer is a priced itinerary as returned by the search API. Offers are
// treated as read-only snapshots once decoded.
type FlightOffer struct {
	ID             string     `json:"id"`
	Airline        Airline    `json:"airline"`
	FlightNumber   string     `json:"flight_number,omitempty"`
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	DepartureTime  time.Time  `json:"departure_time"`
	ArrivalTime    time.Time  `json:"arrival_time"`
	Duration       string     `json:"duration"`
	Stops          int        `json:"stops"`
	Layover        string     `json:"layover,omitempty"`
	Price          float64    `json:"price"`
	Currency       string     `json:"currency"`
	Return         *ReturnLeg `json:"return,omitempty"`
	SeatsRemaining *int       `json:"seats_remaining,omitempty"`
	DateOffset     *int       `json:"date_offset,omitempty"`
}

func (f FlightOffer) HasReturn() bool {
	return f.Return != nil
}

// DepartureDate is the ISO calendar date of the outbound departure in the
// offer's own time zone.
func (f FlightOffer) DepartureDate() string {
	return f.DepartureTime.Format(DateLayout)
}

// ReturnDate is the ISO calendar date of the return departure, or "" for
// one-way offers.
func (f FlightOffer) ReturnDate() string {
	if f.Return == nil {
		return ""
	}
	return f.Return.DepartureTime.Format(DateLayout)
}

// DurationMinutes parses the ISO-8601 duration. Unparseable values count as 0.
func (f FlightOffer) DurationMinutes() int {
	minutes, err := ParseDurationMinutes(f.Duration)
	if err != nil {
		return 0
	}
	return minutes
}

// TotalDurationMinutes sums outbound and return durations.
func (f FlightOffer) TotalDurationMinutes() int {
	total := f.DurationMinutes()
	if f.Return != nil {
		if m, err := ParseDurationMinutes(f.Return.Duration); err == nil {
			total += m
		}
	}
	return total
}

// TotalStops sums outbound and return stops.
func (f FlightOffer) TotalStops() int {
	stops := f.Stops
	if f.Return != nil {
		stops += f.Return.Stops
	}
	return stops
}

func FindOffer(offers []FlightOffer, id string) (FlightOffer, bool) {
	for _, o := range offers {
		if o.ID == id {
			return o, true
		}
	}
	return FlightOffer{}, false
}
