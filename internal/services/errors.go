// Package services holds the business logic behind the error page embed:
// resolving client keys, deciding origin access, validating and storing
// user reports, and linking reports to groups after the fact.
//
// This file centralizes service-level errors. Translation into HTTP status
// codes happens in the handler layer.
package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrKeyNotFound is returned when a DSN is malformed or does not map to an
	// active project key.
	ErrKeyNotFound = errors.New("project key not found")

	// ErrMissingEventID is returned when a submission carries no event id.
	ErrMissingEventID = errors.New("event id is required")
)

// FieldErrors maps form field names to their validation messages.
type FieldErrors map[string][]string

// Add appends msg to field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// ValidationError is returned by Submit when the form is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid report: " + strings.Join(names, ", ")
}
