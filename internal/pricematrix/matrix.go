// Package pricematrix groups flexible-date offers into a departure × return
// grid holding the cheapest offer per date pair.
package pricematrix

import (
	"sort"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

// Key identifies a grid cell. Return is empty for one-way offers.
type Key struct {
	Depart string
	Return string
}

type Matrix struct {
	DepartDates []string
	ReturnDates []string

	cells     map[Key]models.FlightOffer
	lowest    float64
	hasLowest bool
}

// Build keeps the first offer seen for each key unless a later one is
// strictly cheaper.
func Build(offers []models.FlightOffer) *Matrix {
	m := &Matrix{cells: make(map[Key]models.FlightOffer)}
	departs := map[string]bool{}
	returns := map[string]bool{}

	for _, o := range offers {
		k := Key{Depart: o.DepartureDate(), Return: o.ReturnDate()}
		departs[k.Depart] = true
		returns[k.Return] = true

		if cur, ok := m.cells[k]; ok && o.Price >= cur.Price {
			continue
		}
		m.cells[k] = o
	}

	for _, o := range m.cells {
		if !m.hasLowest || o.Price < m.lowest {
			m.lowest = o.Price
			m.hasLowest = true
		}
	}

	m.DepartDates = sortedKeys(departs)
	m.ReturnDates = sortedKeys(returns)
	return m
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Matrix) Len() int {
	return len(m.cells)
}

func (m *Matrix) Cell(depart, ret string) (models.FlightOffer, bool) {
	o, ok := m.cells[Key{Depart: depart, Return: ret}]
	return o, ok
}

// Lowest returns the cheapest price across all cells.
func (m *Matrix) Lowest() (float64, bool) {
	return m.lowest, m.hasLowest
}

func (m *Matrix) IsLowest(depart, ret string) bool {
	o, ok := m.Cell(depart, ret)
	return ok && m.hasLowest && o.Price == m.lowest
}

type CellView struct {
	Depart string
	Return string
	Offer  *models.FlightOffer
	Lowest bool
}

type Row struct {
	Depart string
	Cells  []CellView
}

// Rows renders the sparse grid: rows are departure dates, columns return
// dates, empty cells have a nil Offer.
func (m *Matrix) Rows() []Row {
	rows := make([]Row, 0, len(m.DepartDates))
	for _, d := range m.DepartDates {
		row := Row{Depart: d, Cells: make([]CellView, 0, len(m.ReturnDates))}
		for _, r := range m.ReturnDates {
			cv := CellView{Depart: d, Return: r}
			if o, ok := m.Cell(d, r); ok {
				offer := o
				cv.Offer = &offer
				cv.Lowest = m.IsLowest(d, r)
			}
			row.Cells = append(row.Cells, cv)
		}
		rows = append(rows, row)
	}
	return rows
}
