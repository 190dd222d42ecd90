package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	upcomingSlotIndex = "ux_bookings_upcoming_slot"
)

// storeErr maps driver errors onto the storage contract: missing rows become
// domain.ErrNotFound, everything else is a transient store failure.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}

func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// referenced reports a delete blocked by rows that still point at the record.
func referenced(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return true
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
