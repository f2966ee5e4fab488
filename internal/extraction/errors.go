package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrSectionNotFound is returned when a section needed to read a record is missing or cut short.
	ErrSectionNotFound = errors.New("section not found")
	// ErrGrammarMismatch is returned when a mandatory line does not match its pattern.
	ErrGrammarMismatch = errors.New("grammar mismatch")
	// ErrNumericFormat is returned for numbers that break the locale rules.
	ErrNumericFormat = errors.New("invalid numeric format")
	// ErrInvalidDate is returned when the captured components are not a calendar date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrMalformedRow is returned for a positions table row that cannot be read.
	ErrMalformedRow = errors.New("malformed position row")
)

// FieldError describes a hard failure of one field, with the raw text that caused it.
type FieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (%q)", e.Field, e.Err, e.Raw)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
