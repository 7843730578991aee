package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator plugs validator/v10 into echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var fieldLabels = map[string]string{
	"FirstName":       "first name",
	"LastName":        "last name",
	"ConfirmPassword": "password confirmation",
	"TravelClass":     "travel class",
}

// validationMessage turns the first validator failure into a sentence fit
// for a form.
func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "Please check the form and try again."
	}
	fe := ves[0]
	field, ok := fieldLabels[fe.Field()]
	if !ok {
		field = strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please enter your %s.", field)
	case "email":
		return "Please enter a valid email address."
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("The %s is too long.", field)
	case "eqfield":
		return "The passwords do not match."
	case "oneof":
		return fmt.Sprintf("Please choose a valid %s.", field)
	default:
		return fmt.Sprintf("The %s is not valid.", field)
	}
}
