package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/ranking"
)

const (
	SortPrice     = "price"
	SortDuration  = "duration"
	SortDeparture = "departure"
	SortArrival   = "arrival"
	SortStops     = "stops"
	SortBestValue = "best_value"
)

// Criteria narrows the results list. Nil pointers and empty slices mean
// "no constraint".
type Criteria struct {
	DirectOnly       bool     `json:"direct_only,omitempty"`
	MaxStops         *int     `json:"max_stops,omitempty"`
	Airlines         []string `json:"airlines,omitempty"`
	PriceMin         *float64 `json:"price_min,omitempty"`
	PriceMax         *float64 `json:"price_max,omitempty"`
	DepartureTimeMin *string  `json:"departure_time_min,omitempty"`
	DepartureTimeMax *string  `json:"departure_time_max,omitempty"`
	MaxDuration      *int     `json:"max_duration,omitempty"`
}

// Apply returns a filtered, sorted copy of offers. The input is not modified.
func Apply(offers []models.FlightOffer, criteria *Criteria, sortBy, sortOrder string) []models.FlightOffer {
	filtered := applyFilters(offers, criteria)

	if strings.ToLower(sortBy) == SortBestValue {
		return sortByBestValue(filtered, sortOrder)
	}

	return applySort(filtered, sortBy, sortOrder)
}

// Airlines lists the distinct carriers in offers, in first-seen order.
func Airlines(offers []models.FlightOffer) []models.Airline {
	seen := make(map[string]bool)
	var out []models.Airline
	for _, o := range offers {
		if o.Airline.Code == "" || seen[o.Airline.Code] {
			continue
		}
		seen[o.Airline.Code] = true
		out = append(out, o.Airline)
	}
	return out
}

func applyFilters(offers []models.FlightOffer, criteria *Criteria) []models.FlightOffer {
	result := make([]models.FlightOffer, 0, len(offers))

	for _, o := range offers {
		if criteria == nil || matchesFilters(o, criteria) {
			result = append(result, o)
		}
	}

	return result
}

func matchesFilters(o models.FlightOffer, c *Criteria) bool {
	if c.DirectOnly && o.TotalStops() > 0 {
		return false
	}

	if c.PriceMin != nil && o.Price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && o.Price > *c.PriceMax {
		return false
	}

	if c.MaxStops != nil && o.Stops > *c.MaxStops {
		return false
	}

	if len(c.Airlines) > 0 {
		found := false
		for _, airline := range c.Airlines {
			if strings.EqualFold(o.Airline.Code, airline) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	depTime := o.DepartureTime.Hour()*60 + o.DepartureTime.Minute()
	if c.DepartureTimeMin != nil {
		if minTime, err := parseTimeOfDay(*c.DepartureTimeMin); err == nil && depTime < minTime {
			return false
		}
	}
	if c.DepartureTimeMax != nil {
		if maxTime, err := parseTimeOfDay(*c.DepartureTimeMax); err == nil && depTime > maxTime {
			return false
		}
	}

	if c.MaxDuration != nil && o.DurationMinutes() > *c.MaxDuration {
		return false
	}

	return true
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func sortByBestValue(offers []models.FlightOffer, sortOrder string) []models.FlightOffer {
	scored := ranking.CalculateScores(offers)
	ascending := strings.ToLower(sortOrder) != "desc"

	sort.SliceStable(scored, func(i, j int) bool {
		if ascending {
			return scored[i].Score < scored[j].Score
		}
		return scored[i].Score > scored[j].Score
	})

	out := make([]models.FlightOffer, len(scored))
	for i, s := range scored {
		out[i] = s.Offer
	}
	return out
}

func applySort(offers []models.FlightOffer, sortBy, sortOrder string) []models.FlightOffer {
	if len(offers) == 0 {
		return offers
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	var less func(a, b models.FlightOffer) bool
	switch strings.ToLower(sortBy) {
	case SortDuration:
		less = func(a, b models.FlightOffer) bool {
			return a.TotalDurationMinutes() < b.TotalDurationMinutes()
		}
	case SortDeparture:
		less = func(a, b models.FlightOffer) bool {
			return a.DepartureTime.Before(b.DepartureTime)
		}
	case SortArrival:
		less = func(a, b models.FlightOffer) bool {
			return a.ArrivalTime.Before(b.ArrivalTime)
		}
	case SortStops:
		less = func(a, b models.FlightOffer) bool {
			return a.TotalStops() < b.TotalStops()
		}
	case SortPrice:
		less = func(a, b models.FlightOffer) bool {
			return a.Price < b.Price
		}
	default:
		// Default to price ascending
		ascending = true
		less = func(a, b models.FlightOffer) bool {
			return a.Price < b.Price
		}
	}

	sort.SliceStable(offers, func(i, j int) bool {
		if ascending {
			return less(offers[i], offers[j])
		}
		return less(offers[j], offers[i])
	})

	return offers
}
