package roster

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightbooking/internal/models"
)

var today = time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC)

func TestBuildOrdering(t *testing.T) {
	for a := 1; a <= 3; a++ {
		for y := 0; y <= 2; y++ {
			for c := 0; c <= 2; c++ {
				for i := 0; i <= a; i++ {
					counts := models.PassengerCounts{Adults: a, Youth: y, Children: c, Infants: i}
					got := Build(counts)

					require.Len(t, got, a+y+c+i)
					want := make([]models.PassengerType, 0, len(got))
					for range a {
						want = append(want, models.PassengerAdult)
					}
					for range y {
						want = append(want, models.PassengerYouth)
					}
					for range c {
						want = append(want, models.PassengerChild)
					}
					for range i {
						want = append(want, models.PassengerInfant)
					}
					for idx, p := range got {
						assert.Equal(t, want[idx], p.Type)
						assert.Empty(t, p.FirstName)
					}
					assert.Equal(t, counts, Counts(got))
				}
			}
		}
	}
}

func complete(t models.PassengerType, dob string) models.Passenger {
	return models.Passenger{
		Type:        t,
		Title:       "Ms",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: dob,
		Gender:      "female",
	}
}

var contact = models.ContactInfo{Email: "ada@example.com", Phone: "+44 20 7946 0000"}

func TestValidateAgeBands(t *testing.T) {
	// 17 years old on 2026-10-18.
	dob := "2009-01-01"

	err := Validate([]models.Passenger{complete(models.PassengerAdult, dob)}, contact, today)
	var ageErr *AgeRangeError
	require.ErrorAs(t, err, &ageErr)
	assert.Equal(t, 1, ageErr.Index)
	assert.Equal(t, 17, ageErr.Age)
	assert.Equal(t, "18+", ageErr.Band.String())
	assert.True(t, errors.Is(err, models.ErrValidation))

	assert.NoError(t, Validate([]models.Passenger{complete(models.PassengerYouth, dob)}, contact, today))
}

func TestValidateBandsBoundaries(t *testing.T) {
	tests := []struct {
		name string
		typ  models.PassengerType
		dob  string
		ok   bool
	}{
		{"adult 18", models.PassengerAdult, "2008-01-01", true},
		{"youth 12", models.PassengerYouth, "2014-01-01", true},
		{"youth 11", models.PassengerYouth, "2015-01-01", false},
		{"child 11", models.PassengerChild, "2015-01-01", true},
		{"child 2", models.PassengerChild, "2024-01-01", true},
		{"child 1", models.PassengerChild, "2025-01-01", false},
		{"infant 1", models.PassengerInfant, "2025-01-01", true},
		{"infant 2", models.PassengerInfant, "2024-01-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]models.Passenger{complete(tt.typ, tt.dob)}, contact, today)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				var ageErr *AgeRangeError
				assert.ErrorAs(t, err, &ageErr)
			}
		})
	}
}

func TestValidateStopsAtFirstViolation(t *testing.T) {
	second := complete(models.PassengerChild, "2018-05-05")
	second.LastName = ""
	third := complete(models.PassengerInfant, "2010-01-01")

	err := Validate([]models.Passenger{
		complete(models.PassengerAdult, "1980-02-02"),
		second,
		third,
	}, models.ContactInfo{}, today)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 2, missing.Index)
	assert.Equal(t, "last name", missing.Field)
	assert.Equal(t, "passenger 2: last name is required", err.Error())
}

func TestValidateContact(t *testing.T) {
	passengers := []models.Passenger{complete(models.PassengerAdult, "1980-02-02")}

	var contactErr *MissingContactError
	err := Validate(passengers, models.ContactInfo{Phone: "123"}, today)
	require.ErrorAs(t, err, &contactErr)
	assert.Equal(t, "email", contactErr.Field)

	err = Validate(passengers, models.ContactInfo{Email: "a@b.co"}, today)
	require.ErrorAs(t, err, &contactErr)
	assert.Equal(t, "phone", contactErr.Field)
}

func TestValidateInvalidDateOfBirth(t *testing.T) {
	err := Validate([]models.Passenger{complete(models.PassengerAdult, "02/02/1980")}, contact, today)
	var dobErr *InvalidDateOfBirthError
	assert.ErrorAs(t, err, &dobErr)
}
