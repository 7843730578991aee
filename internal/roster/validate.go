package roster

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

const daysPerYear = 365.25

type AgeBand struct {
	Min int
	Max int // -1 for no upper bound
}

func (b AgeBand) Contains(age int) bool {
	if age < b.Min {
		return false
	}
	return b.Max < 0 || age <= b.Max
}

func (b AgeBand) String() string {
	switch {
	case b.Max < 0:
		return fmt.Sprintf("%d+", b.Min)
	case b.Min == 0:
		return fmt.Sprintf("under %d", b.Max+1)
	default:
		return fmt.Sprintf("%d-%d", b.Min, b.Max)
	}
}

var AgeBands = map[models.PassengerType]AgeBand{
	models.PassengerAdult:  {Min: 18, Max: -1},
	models.PassengerYouth:  {Min: 12, Max: 17},
	models.PassengerChild:  {Min: 2, Max: 11},
	models.PassengerInfant: {Min: 0, Max: 1},
}

type MissingFieldError struct {
	Index int // 1-based
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("passenger %d: %s is required", e.Index, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return models.ErrValidation }

type InvalidDateOfBirthError struct {
	Index int
	Value string
}

func (e *InvalidDateOfBirthError) Error() string {
	return fmt.Sprintf("passenger %d: date of birth %q is not a valid date", e.Index, e.Value)
}

func (e *InvalidDateOfBirthError) Unwrap() error { return models.ErrValidation }

type AgeRangeError struct {
	Index int
	Type  models.PassengerType
	Age   int
	Band  AgeBand
}

func (e *AgeRangeError) Error() string {
	return fmt.Sprintf("passenger %d: %s passengers must be aged %s (age %d)",
		e.Index, strings.ToLower(e.Type.Label()), e.Band, e.Age)
}

func (e *AgeRangeError) Unwrap() error { return models.ErrValidation }

type MissingContactError struct {
	Field string
}

func (e *MissingContactError) Error() string {
	return fmt.Sprintf("contact %s is required", e.Field)
}

func (e *MissingContactError) Unwrap() error { return models.ErrValidation }

// Age is floor((today - dob) / 365.25 days).
func Age(dob, today time.Time) int {
	days := today.Sub(dob).Hours() / 24
	return int(math.Floor(days / daysPerYear))
}

// Validate scans passengers in order and stops at the first problem, then
// checks the contact email and phone.
func Validate(passengers []models.Passenger, contact models.ContactInfo, today time.Time) error {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	for i, p := range passengers {
		idx := i + 1
		if field := firstMissing(p); field != "" {
			return &MissingFieldError{Index: idx, Field: field}
		}

		dob, err := time.Parse(models.DateLayout, strings.TrimSpace(p.DateOfBirth))
		if err != nil {
			return &InvalidDateOfBirthError{Index: idx, Value: p.DateOfBirth}
		}

		band, ok := AgeBands[p.Type]
		if !ok {
			return &MissingFieldError{Index: idx, Field: "passenger type"}
		}
		if age := Age(dob, today); !band.Contains(age) {
			return &AgeRangeError{Index: idx, Type: p.Type, Age: age, Band: band}
		}
	}

	if strings.TrimSpace(contact.Email) == "" {
		return &MissingContactError{Field: "email"}
	}
	if strings.TrimSpace(contact.Phone) == "" {
		return &MissingContactError{Field: "phone"}
	}
	return nil
}

func firstMissing(p models.Passenger) string {
	fields := []struct {
		name  string
		value string
	}{
		{"title", p.Title},
		{"first name", p.FirstName},
		{"last name", p.LastName},
		{"date of birth", p.DateOfBirth},
		{"gender", p.Gender},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}
