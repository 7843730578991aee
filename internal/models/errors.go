package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrRequestFailed = errors.New("request failed")
	ErrAuthFailed    = errors.New("authentication failed")
)

// RequestFailure reports a transport error or a non-success answer from the
// API. Message is safe to show to the visitor.
type RequestFailure struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RequestFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RequestFailure) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRequestFailed, e.Err}
	}
	return []error{ErrRequestFailed}
}

// AuthFailure covers bad credentials and invalid or expired tokens.
type AuthFailure struct {
	Reason string
}

func (e *AuthFailure) Error() string {
	return e.Reason
}

func (e *AuthFailure) Unwrap() error {
	return ErrAuthFailed
}

// UserMessage picks the text shown to the visitor for err.
func UserMessage(err error, fallback string) string {
	var ve ValidationError
	var rf *RequestFailure
	var af *AuthFailure
	switch {
	case errors.As(err, &af):
		return af.Reason
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &rf) && rf.Message != "":
		return rf.Message
	case errors.Is(err, ErrValidation):
		return err.Error()
	}
	return fallback
}
