package pricematrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

func offer(id, depart, ret string, price float64) models.FlightOffer {
	d, _ := time.Parse("2006-01-02", depart)
	o := models.FlightOffer{
		ID:            id,
		DepartureTime: d.Add(9 * time.Hour),
		Price:         price,
		Currency:      "GBP",
	}
	if ret != "" {
		r, _ := time.Parse("2006-01-02", ret)
		o.Return = &models.ReturnLeg{DepartureTime: r.Add(18 * time.Hour)}
	}
	return o
}

func TestBuildKeepsCheapestPerPair(t *testing.T) {
	m := Build([]models.FlightOffer{
		offer("a", "2025-09-01", "2025-09-08", 400),
		offer("b", "2025-09-01", "2025-09-08", 350),
		offer("c", "2025-09-02", "2025-09-09", 500),
	})

	cell, ok := m.Cell("2025-09-01", "2025-09-08")
	require.True(t, ok)
	assert.Equal(t, 350.0, cell.Price)
	assert.Equal(t, "b", cell.ID)

	lowest, ok := m.Lowest()
	require.True(t, ok)
	assert.Equal(t, 350.0, lowest)
	assert.True(t, m.IsLowest("2025-09-01", "2025-09-08"))
	assert.False(t, m.IsLowest("2025-09-02", "2025-09-09"))
	assert.Equal(t, 2, m.Len())
}

func TestBuildTiesKeepFirst(t *testing.T) {
	m := Build([]models.FlightOffer{
		offer("first", "2025-09-01", "2025-09-08", 300),
		offer("second", "2025-09-01", "2025-09-08", 300),
	})
	cell, _ := m.Cell("2025-09-01", "2025-09-08")
	assert.Equal(t, "first", cell.ID)
}

func TestRowsSparseGrid(t *testing.T) {
	m := Build([]models.FlightOffer{
		offer("c", "2025-09-02", "2025-09-09", 500),
		offer("a", "2025-09-01", "2025-09-08", 400),
	})

	assert.Equal(t, []string{"2025-09-01", "2025-09-02"}, m.DepartDates)
	assert.Equal(t, []string{"2025-09-08", "2025-09-09"}, m.ReturnDates)

	rows := m.Rows()
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Cells[0].Offer)
	assert.True(t, rows[0].Cells[0].Lowest)
	assert.Nil(t, rows[0].Cells[1].Offer)
	assert.Nil(t, rows[1].Cells[0].Offer)
	assert.Equal(t, "c", rows[1].Cells[1].Offer.ID)
}

func TestBuildOneWayUsesEmptyReturn(t *testing.T) {
	m := Build([]models.FlightOffer{offer("x", "2025-09-03", "", 120)})
	assert.Equal(t, []string{""}, m.ReturnDates)
	_, ok := m.Cell("2025-09-03", "")
	assert.True(t, ok)
}

func TestBuildEmpty(t *testing.T) {
	m := Build(nil)
	_, ok := m.Lowest()
	assert.False(t, ok)
	assert.Empty(t, m.Rows())
}
