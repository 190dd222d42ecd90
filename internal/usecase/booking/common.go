package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uint
	Role   auth.Role
}

// Calendar answers "what day is it at the shop".
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = timezone.Location("")
	}
	return &Calendar{loc: loc, now: time.Now}
}

// WithNow pins the clock, for tests.
func (c *Calendar) WithNow(now func() time.Time) *Calendar {
	c.now = now
	return c
}

func (c *Calendar) Today() time.Time {
	return timezone.Today(c.now(), c.loc)
}

func loadSchedule(ctx context.Context, repo domain.Repository) (domain.Schedule, error) {
	rows, err := repo.ListWorkingHours(ctx)
	if err != nil {
		return domain.Schedule{}, err
	}
	return domain.ScheduleFromModels(rows)
}

// notFoundAs swaps a repository miss for a business error.
func notFoundAs(err, business error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return business
	}
	return err
}
