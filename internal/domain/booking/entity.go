package booking

import "github.com/BruksfildServices01/barber-booking/internal/models"

// ===============================
// Domain Actions
// ===============================

func Transition(b *models.Booking, next Status) error {
	if err := CanTransition(Status(b.Status), next); err != nil {
		return err
	}

	b.Status = string(next)
	return nil
}

func isUpcoming(b models.Booking) bool {
	return Status(b.Status).Blocks()
}
