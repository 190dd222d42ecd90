package booking

import (
	"errors"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

var (
	ErrNoBarberAvailable = httperr.ErrBusiness("no_barber_available")
	ErrSlotTaken         = httperr.ErrBusiness("slot_taken")
	ErrBookingNotFound   = httperr.ErrBusiness("booking_not_found")
	ErrServiceNotFound   = httperr.ErrBusiness("service_not_found")
	ErrBarberNotFound    = httperr.ErrBusiness("barber_not_found")
	ErrForbidden         = httperr.ErrBusiness("forbidden")

	// ErrNotFound is returned by repositories for a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps any storage failure. It is transient and is
	// never retried on the caller's behalf.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError lists the wizard fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
