package roster

import "github.com/dharmasatrya/flightbooking/internal/models"

// Build returns a fresh roster: adults first, then youth, children and
// infants. Callers rebuild the whole roster whenever a count changes, which
// discards anything already typed in.
func Build(counts models.PassengerCounts) []models.Passenger {
	passengers := make([]models.Passenger, 0, max(counts.Total(), 0))
	passengers = appendType(passengers, models.PassengerAdult, counts.Adults)
	passengers = appendType(passengers, models.PassengerYouth, counts.Youth)
	passengers = appendType(passengers, models.PassengerChild, counts.Children)
	passengers = appendType(passengers, models.PassengerInfant, counts.Infants)
	return passengers
}

func appendType(passengers []models.Passenger, t models.PassengerType, n int) []models.Passenger {
	for i := 0; i < n; i++ {
		passengers = append(passengers, models.Passenger{Type: t})
	}
	return passengers
}

// Counts tallies a roster back into passenger counts.
func Counts(passengers []models.Passenger) models.PassengerCounts {
	var c models.PassengerCounts
	for _, p := range passengers {
		switch p.Type {
		case models.PassengerAdult:
			c.Adults++
		case models.PassengerYouth:
			c.Youth++
		case models.PassengerChild:
			c.Children++
		case models.PassengerInfant:
			c.Infants++
		}
	}
	return c
}
