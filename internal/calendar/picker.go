// Package calendar implements the date-range picker used by the search form:
// click and drag gestures that select a departure date or a
// departure/return pair, plus fare overlays bucketed into colour tiers.
package calendar

import (
	"time"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

// Picker is the gesture state of one calendar. Every gesture method reports
// whether it completed a selection; that happens once per completed pair, or
// once per date in one-way mode.
type Picker struct {
	OneWay    bool       `json:"one_way"`
	Depart    *time.Time `json:"depart,omitempty"`
	Return    *time.Time `json:"return,omitempty"`
	Dragging  bool       `json:"dragging"`
	DragStart *time.Time `json:"drag_start,omitempty"`
	Preview   *time.Time `json:"preview,omitempty"`

	// Today bounds selectable dates and is refreshed by the owner on every
	// use rather than persisted.
	Today time.Time `json:"-"`
}

func NewPicker(oneWay bool, today time.Time) *Picker {
	return &Picker{OneWay: oneWay, Today: Day(today)}
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay reads a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}

func (p *Picker) selectable(d time.Time) bool {
	return !d.Before(Day(p.Today))
}

// SetOneWay switches mode. Leaving round-trip mode drops the return date.
func (p *Picker) SetOneWay(oneWay bool) {
	if p.OneWay == oneWay {
		return
	}
	p.OneWay = oneWay
	p.Return = nil
	p.cancelDrag()
}

// Reset clears the whole selection.
func (p *Picker) Reset() {
	p.Depart, p.Return = nil, nil
	p.cancelDrag()
}

func (p *Picker) Complete() bool {
	if p.OneWay {
		return p.Depart != nil
	}
	return p.Depart != nil && p.Return != nil
}

// Click handles a plain click on day.
func (p *Picker) Click(day time.Time) bool {
	d := Day(day)
	if !p.selectable(d) {
		return false
	}
	p.cancelDrag()

	if p.OneWay {
		p.Depart, p.Return = &d, nil
		return true
	}

	if p.Depart != nil && p.Return == nil && d.After(*p.Depart) {
		p.Return = &d
		return true
	}

	p.Depart, p.Return = &d, nil
	return false
}

// Press starts a drag gesture. It is ignored in one-way mode and while a
// complete pair is selected.
func (p *Picker) Press(day time.Time) {
	d := Day(day)
	if p.OneWay || !p.selectable(d) {
		return
	}
	if p.Depart != nil && p.Return != nil {
		return
	}
	p.Dragging = true
	p.DragStart = &d
	p.Preview = nil
}

// Move updates the live return preview while dragging.
func (p *Picker) Move(day time.Time) {
	d := Day(day)
	if !p.Dragging || !p.selectable(d) {
		return
	}
	if d.After(*p.DragStart) {
		p.Preview = &d
		return
	}
	p.Preview = nil
}

// Release ends a drag. A gesture that reached a later date commits the pair;
// otherwise only the departure date is committed.
func (p *Picker) Release() bool {
	if !p.Dragging {
		return false
	}
	start, preview := *p.DragStart, p.Preview
	p.cancelDrag()

	p.Depart = &start
	if preview != nil {
		ret := *preview
		p.Return = &ret
		return true
	}
	p.Return = nil
	return false
}

// PendingDepart is the departure shown while a drag is in progress.
func (p *Picker) PendingDepart() *time.Time {
	if p.Dragging {
		return p.DragStart
	}
	return p.Depart
}

func (p *Picker) cancelDrag() {
	p.Dragging = false
	p.DragStart = nil
	p.Preview = nil
}
