package ranking

import (
	"math"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

const (
	PriceWeight    = 0.5
	DurationWeight = 0.3
	StopsWeight    = 0.2
)

type Scored struct {
	Offer models.FlightOffer
	Score float64
}

func CalculateScores(offers []models.FlightOffer) []Scored {
	if len(offers) == 0 {
		return nil
	}

	maxPrice := findMaxPrice(offers)
	maxDuration := findMaxDuration(offers)

	result := make([]Scored, len(offers))
	for i, o := range offers {
		result[i] = Scored{
			Offer: o,
			Score: CalculateBestValue(o, maxPrice, maxDuration),
		}
	}

	return result
}

// Lower score = better value. Round trips are scored on the combined
// duration and stops of both legs.
func CalculateBestValue(offer models.FlightOffer, maxPrice, maxDuration float64) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		priceScore = (offer.Price / maxPrice) * 100
	}

	durationScore := 0.0
	if maxDuration > 0 {
		durationScore = (float64(offer.TotalDurationMinutes()) / maxDuration) * 100
	}

	stopsScore := float64(offer.TotalStops()) * 15
	score := (priceScore * PriceWeight) + (durationScore * DurationWeight) + (stopsScore * StopsWeight)

	return math.Round(score*100) / 100
}

func findMaxPrice(offers []models.FlightOffer) float64 {
	maxPrice := 0.0
	for _, o := range offers {
		if o.Price > maxPrice {
			maxPrice = o.Price
		}
	}
	return maxPrice
}

func findMaxDuration(offers []models.FlightOffer) float64 {
	maxDuration := 0.0
	for _, o := range offers {
		dur := float64(o.TotalDurationMinutes())
		if dur > maxDuration {
			maxDuration = dur
		}
	}
	return maxDuration
}
