package usecase

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBookingNotFound is returned when a booking ID resolves to nothing.
var ErrBookingNotFound = errors.New("booking not found")

// ErrAvailabilityUnverified is returned when a booking cannot be
// accepted because the authoritative blocked-date set could not be
// computed. The request is safe to retry.
var ErrAvailabilityUnverified = errors.New("availability could not be verified")

// ValidationError carries field-level problems back to the handler for
// a 400 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError is returned when requested dates clash with existing
// blocks. BlockedDates lists the clashing days inside the requested
// range so the guest can see exactly what is taken.
type ConflictError struct {
	Property     string
	BlockedDates []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dates not available for %s: %s", e.Property, strings.Join(e.BlockedDates, ", "))
}
