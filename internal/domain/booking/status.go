package booking

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// ===============================
// Validations
// ===============================

// CanTransition allows only upcoming -> completed and upcoming -> cancelled.
func CanTransition(current, next Status) error {
	if current != StatusUpcoming {
		return httperr.ErrBusiness("invalid_state")
	}
	if next != StatusCompleted && next != StatusCancelled {
		return httperr.ErrBusiness("invalid_status")
	}
	return nil
}

func InitialStatus() Status {
	return StatusUpcoming
}

// Blocks reports whether a booking in this status occupies its slot.
func (s Status) Blocks() bool {
	return s == StatusUpcoming
}
