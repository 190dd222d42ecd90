package booking

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ChangeStatus struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewChangeStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
) *ChangeStatus {
	return &ChangeStatus{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
	}
}

// Execute moves an upcoming booking to completed or cancelled.
//
// Customers may only cancel their own bookings, barbers may act on bookings
// assigned to them, admins on any. Bookings the actor may not see are
// reported as not found.
func (uc *ChangeStatus) Execute(
	ctx context.Context,
	actor Actor,
	bookingID uint,
	status string,
) (*models.Booking, error) {

	next, ok := domain.ParseStatus(status)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrBookingNotFound)
	}

	if err := uc.authorize(ctx, actor, b, next); err != nil {
		return nil, err
	}

	if err := domain.Transition(b, next); err != nil {
		return nil, err
	}

	if err := uc.repo.SetBookingStatus(ctx, b.ID, next); err != nil {
		return nil, notFoundAs(err, domain.ErrBookingNotFound)
	}

	uc.metrics.IncBookingStatus(string(next))

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "booking_" + string(next),
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"role": actor.Role},
	})

	return b, nil
}

func (uc *ChangeStatus) authorize(
	ctx context.Context,
	actor Actor,
	b *models.Booking,
	next domain.Status,
) error {

	switch actor.Role {
	case auth.RoleAdmin:
		return nil

	case auth.RoleCustomer:
		if b.UserID != actor.UserID {
			return domain.ErrBookingNotFound
		}
		if next != domain.StatusCancelled {
			return domain.ErrForbidden
		}
		return nil

	case auth.RoleBarber:
		barber, err := uc.repo.GetBarberByUserID(ctx, actor.UserID)
		if err != nil {
			return notFoundAs(err, domain.ErrForbidden)
		}
		if b.BarberID != barber.ID {
			return domain.ErrBookingNotFound
		}
		return nil
	}

	return domain.ErrForbidden
}
