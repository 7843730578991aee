package calendar

import (
	"math"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

type Tier string

const (
	TierNone   Tier = ""
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Fares maps YYYY-MM-DD dates to the cheapest known fare for that day.
type Fares map[string]float64

// Scale buckets fares linearly between the lowest and highest supplied value.
type Scale struct {
	min, max float64
	ok       bool
}

func NewScale(fares Fares) Scale {
	s := Scale{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range fares {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.ok = len(fares) > 0 && s.max > s.min
	return s
}

func (s Scale) Tier(price float64) Tier {
	if !s.ok {
		return TierNone
	}
	ratio := (price - s.min) / (s.max - s.min)
	switch {
	case ratio < 1.0/3:
		return TierLow
	case ratio < 2.0/3:
		return TierMedium
	default:
		return TierHigh
	}
}

type Cell struct {
	Date       string   `json:"date"`
	Day        int      `json:"day"`
	InMonth    bool     `json:"in_month"`
	Selectable bool     `json:"selectable"`
	Fare       *float64 `json:"fare,omitempty"`
	Tier       Tier     `json:"tier,omitempty"`
	Depart     bool     `json:"depart"`
	Return     bool     `json:"return"`
	InRange    bool     `json:"in_range"`
	Preview    bool     `json:"preview"`
}

type Week []Cell

// Month lays out a Monday-first grid for the given month with selection and
// fare overlays applied.
func (p *Picker) Month(year int, month time.Month, fares Fares) []Week {
	scale := NewScale(fares)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	cursor := first.AddDate(0, 0, -offset)

	depart := p.PendingDepart()
	end := p.Return
	if p.Dragging {
		end = p.Preview
	}

	var weeks []Week
	for {
		week := make(Week, 0, 7)
		for i := 0; i < 7; i++ {
			key := cursor.Format(models.DateLayout)
			c := Cell{
				Date:       key,
				Day:        cursor.Day(),
				InMonth:    cursor.Month() == month,
				Selectable: p.selectable(cursor),
				Depart:     depart != nil && cursor.Equal(*depart),
				Return:     !p.Dragging && p.Return != nil && cursor.Equal(*p.Return),
				Preview:    p.Dragging && p.Preview != nil && cursor.Equal(*p.Preview),
			}
			if depart != nil && end != nil {
				c.InRange = cursor.After(*depart) && cursor.Before(*end)
			}
			if fare, ok := fares[key]; ok {
				f := fare
				c.Fare = &f
				c.Tier = scale.Tier(fare)
			}
			week = append(week, c)
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
		if cursor.Month() != month {
			break
		}
	}
	return weeks
}

// FaresFromOffers keeps the cheapest price per outbound departure date.
func FaresFromOffers(offers []models.FlightOffer) Fares {
	if len(offers) == 0 {
		return nil
	}
	fares := make(Fares, len(offers))
	for _, o := range offers {
		day := o.DepartureDate()
		if cur, ok := fares[day]; !ok || o.Price < cur {
			fares[day] = o.Price
		}
	}
	return fares
}
