// Package fare splits an itinerary's total price across passenger types.
//
// Unit prices are derived from the total divided by the head count, then
// discounted per type. The grand total is reported as the offer price and is
// not recomputed from the subtotals, so the two disagree whenever youth,
// child or infant passengers are present. That mismatch is deliberate and
// awaiting product sign-off.
package fare

import (
	"errors"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

const (
	YouthRatio  = 0.90
	ChildRatio  = 0.75
	InfantRatio = 0.10
)

var ErrNoPassengers = errors.New("fare breakdown needs at least one passenger")

type Bucket struct {
	Count    int     `json:"count"`
	Unit     float64 `json:"unit"`
	Subtotal float64 `json:"subtotal"`
}

type Breakdown struct {
	Adult      Bucket  `json:"adult"`
	Youth      Bucket  `json:"youth"`
	Child      Bucket  `json:"child"`
	Infant     Bucket  `json:"infant"`
	GrandTotal float64 `json:"grand_total"`
	Currency   string  `json:"currency"`
}

type Line struct {
	Type models.PassengerType
	Bucket
}

func Calculate(total float64, counts models.PassengerCounts, currency string) (Breakdown, error) {
	n := counts.Total()
	if n <= 0 {
		return Breakdown{}, ErrNoPassengers
	}
	if currency == "" {
		currency = models.CurrencyGBP
	}

	adultUnit := total / float64(n)

	return Breakdown{
		Adult:      bucket(counts.Adults, adultUnit),
		Youth:      bucket(counts.Youth, adultUnit*YouthRatio),
		Child:      bucket(counts.Children, adultUnit*ChildRatio),
		Infant:     bucket(counts.Infants, adultUnit*InfantRatio),
		GrandTotal: total,
		Currency:   currency,
	}, nil
}

func bucket(count int, unit float64) Bucket {
	return Bucket{
		Count:    count,
		Unit:     unit,
		Subtotal: unit * float64(count),
	}
}

// SubtotalSum adds the four subtotals. It only equals GrandTotal for
// adult-only bookings.
func (b Breakdown) SubtotalSum() float64 {
	return b.Adult.Subtotal + b.Youth.Subtotal + b.Child.Subtotal + b.Infant.Subtotal
}

// Lines lists the populated buckets in roster order.
func (b Breakdown) Lines() []Line {
	all := []Line{
		{Type: models.PassengerAdult, Bucket: b.Adult},
		{Type: models.PassengerYouth, Bucket: b.Youth},
		{Type: models.PassengerChild, Bucket: b.Child},
		{Type: models.PassengerInfant, Bucket: b.Infant},
	}
	lines := make([]Line, 0, len(all))
	for _, l := range all {
		if l.Count > 0 {
			lines = append(lines, l)
		}
	}
	return lines
}
