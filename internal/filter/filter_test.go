package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

func at(hour int) time.Time {
	return time.Date(2026, 11, 2, hour, 0, 0, 0, time.UTC)
}

func sampleOffers() []models.FlightOffer {
	return []models.FlightOffer{
		{ID: "a", Airline: models.Airline{Code: "BA"}, Price: 450, Duration: "PT8H", Stops: 0, DepartureTime: at(9)},
		{ID: "b", Airline: models.Airline{Code: "VS"}, Price: 320, Duration: "PT11H", Stops: 1, DepartureTime: at(6)},
		{ID: "c", Airline: models.Airline{Code: "BA"}, Price: 380, Duration: "PT7H30M", Stops: 0, DepartureTime: at(18)},
	}
}

func ids(offers []models.FlightOffer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID
	}
	return out
}

func TestApply_Sort(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		want   []string
	}{
		{"default price", "", "", []string{"b", "c", "a"}},
		{"price desc", SortPrice, "desc", []string{"a", "c", "b"}},
		{"duration", SortDuration, "asc", []string{"c", "a", "b"}},
		{"departure", SortDeparture, "", []string{"b", "a", "c"}},
		{"stops", SortStops, "", []string{"a", "c", "b"}},
		{"unknown falls back to price", "seats", "desc", []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleOffers(), nil, tt.sortBy, tt.order)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_BestValue(t *testing.T) {
	got := Apply(sampleOffers(), nil, SortBestValue, "")
	assert.Equal(t, "c", got[0].ID)
}

func TestApply_Filters(t *testing.T) {
	got := Apply(sampleOffers(), &Criteria{DirectOnly: true}, SortPrice, "")
	assert.Equal(t, []string{"c", "a"}, ids(got))

	got = Apply(sampleOffers(), &Criteria{Airlines: []string{"vs"}}, SortPrice, "")
	assert.Equal(t, []string{"b"}, ids(got))

	after := "08:00"
	got = Apply(sampleOffers(), &Criteria{DepartureTimeMin: &after}, SortPrice, "")
	assert.Equal(t, []string{"c", "a"}, ids(got))

	maxPrice := 400.0
	got = Apply(sampleOffers(), &Criteria{PriceMax: &maxPrice}, SortPrice, "")
	assert.Equal(t, []string{"b", "c"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	offers := sampleOffers()
	Apply(offers, nil, SortPrice, "")
	assert.Equal(t, []string{"a", "b", "c"}, ids(offers))
}

func TestAirlines(t *testing.T) {
	got := Airlines(sampleOffers())
	assert.Len(t, got, 2)
	assert.Equal(t, "BA", got[0].Code)
	assert.Equal(t, "VS", got[1].Code)
}
