// Package service implements countdown creation, retrieval and the
// step-by-step draft used by the creation wizard.
package service

import (
	"errors"
	"strings"

	"github.com/erazemk/timely/internal/countdown"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrFieldTooLong         = errors.New("field too long")
	ErrInvalidType          = errors.New("invalid countdown type")
	ErrInvalidImage         = errors.New("invalid image")
	ErrNotFound             = errors.New("countdown not found")
	ErrStoreUnavailable     = errors.New("countdown store unavailable")
	ErrPersistenceFailure   = errors.New("failed to persist countdown")
	ErrCorruptRecord        = errors.New("stored countdown is corrupt")
)

// ValidationError is a rejected input. Err is one of the validation sentinels
// above (or a composer error) and Fields names the offending form fields.
type ValidationError struct {
	Err    error
	Fields []string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		return e.Err.Error() + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, detail string, fields ...string) *ValidationError {
	return &ValidationError{Err: err, Fields: fields, Detail: detail}
}

// Class groups errors by how callers should react to them.
type Class string

const (
	ClassValidation  Class = "validation"
	ClassMedia       Class = "media"
	ClassNotFound    Class = "not_found"
	ClassUnavailable Class = "unavailable"
	ClassStorage     Class = "storage"
	ClassUnexpected  Class = "unexpected"
)

// Classify maps an error returned by this package to its class. A nil error
// has no class.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCorruptRecord):
		return ClassStorage
	case errors.Is(err, ErrInvalidImage):
		return ClassMedia
	case errors.Is(err, ErrMissingRequiredField),
		errors.Is(err, ErrFieldTooLong),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, countdown.ErrInvalidDateFormat),
		errors.Is(err, countdown.ErrInvalidTimeFormat),
		errors.Is(err, ErrDateInPast):
		return ClassValidation
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return ClassUnavailable
	case errors.Is(err, ErrPersistenceFailure):
		return ClassStorage
	default:
		return ClassUnexpected
	}
}
