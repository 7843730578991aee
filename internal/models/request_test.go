package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequestValidateDefaults(t *testing.T) {
	req := SearchRequest{
		Origin:        " lhr ",
		Destination:   "jfk",
		DepartureDate: "2026-11-02",
	}
	require.NoError(t, req.Validate())

	assert.Equal(t, TripOneWay, req.TripType)
	assert.Equal(t, "LHR", req.Origin)
	assert.Equal(t, "JFK", req.Destination)
	assert.Equal(t, 1, req.Passengers.Adults)
	assert.Equal(t, ClassEconomy, req.TravelClass)
}

func TestSearchRequestValidateRoundTrip(t *testing.T) {
	req := SearchRequest{
		TripType:      TripRoundTrip,
		Origin:        "LHR",
		Destination:   "JFK",
		DepartureDate: "2026-11-02",
		ReturnDate:    "2026-11-02",
		Passengers:    PassengerCounts{Adults: 1},
	}
	assert.ErrorIs(t, req.Validate(), ErrReturnBeforeDeparture)

	req.ReturnDate = ""
	assert.ErrorIs(t, req.Validate(), ErrMissingReturnDate)

	req.ReturnDate = "2026-11-09"
	assert.NoError(t, req.Validate())
}

func TestSearchRequestValidateInfants(t *testing.T) {
	req := SearchRequest{
		Origin:        "LHR",
		Destination:   "CDG",
		DepartureDate: "2026-11-02",
		Passengers:    PassengerCounts{Adults: 1, Infants: 2},
	}
	err := req.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyInfants)
	assert.True(t, errors.Is(err, ErrValidation))

	req.Passengers.Adults = 2
	assert.NoError(t, req.Validate())
}

func TestSearchRequestValidateMultiCity(t *testing.T) {
	req := SearchRequest{
		TripType: TripMultiCity,
		Legs: []Leg{
			{Origin: "lhr", Destination: "cdg", DepartureDate: "2026-11-02"},
			{Origin: "cdg", Destination: "fco", DepartureDate: "2026-11-01"},
		},
	}
	assert.ErrorIs(t, req.Validate(), ErrLegsOutOfOrder)

	req.Legs[1].DepartureDate = "2026-11-05"
	require.NoError(t, req.Validate())
	assert.Equal(t, "LHR → CDG → FCO", req.Route())

	req.Legs = req.Legs[:1]
	assert.ErrorIs(t, req.Validate(), ErrLegCount)
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
		err  bool
	}{
		{"PT2H30M", 150, false},
		{"PT45M", 45, false},
		{"PT7H", 420, false},
		{"P1DT2H", 1560, false},
		{"2h", 0, true},
		{"PT", 0, true},
		{"PTH", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDurationMinutes(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "2h 30m", FormatDuration(150))
}

func TestUserMessage(t *testing.T) {
	rf := &RequestFailure{Op: "booking", Message: "Sold out"}
	assert.Equal(t, "Sold out", UserMessage(rf, "generic"))
	assert.Equal(t, "Wrong password", UserMessage(&AuthFailure{Reason: "Wrong password"}, "generic"))
	assert.Equal(t, "generic", UserMessage(errors.New("boom"), "generic"))
	assert.True(t, errors.Is(rf, ErrRequestFailed))
}
