package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	resolver *domain.Resolver
	calendar *Calendar
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
}

func NewCreateBooking(
	repo domain.Repository,
	resolver *domain.Resolver,
	calendar *Calendar,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
) *CreateBooking {
	if resolver == nil {
		resolver = domain.NewResolver(nil)
	}
	return &CreateBooking{
		repo:     repo,
		resolver: resolver,
		calendar: calendar,
		audit:    audit,
		metrics:  metrics,
	}
}

// SubmitFor binds the use case to a customer so a wizard can commit through it.
func (uc *CreateBooking) SubmitFor(userID uint) domain.SubmitFunc {
	return func(ctx context.Context, d domain.Draft) (*models.Booking, error) {
		return uc.Execute(ctx, userID, d)
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute re-checks the slot against fresh store reads and persists an
// upcoming booking. The store's uniqueness guarantee covers the window
// between this check and the insert.
func (uc *CreateBooking) Execute(
	ctx context.Context,
	userID uint,
	d domain.Draft,
) (*models.Booking, error) {

	b, err := uc.execute(ctx, userID, d)
	uc.metrics.IncBookingCreate(outcome(err))
	return b, err
}

func (uc *CreateBooking) execute(
	ctx context.Context,
	userID uint,
	d domain.Draft,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Required fields and formats
	// --------------------------------------------------
	if err := d.Validate(); err != nil {
		return nil, err
	}

	date, err := domain.ParseDate(d.Date)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []string{"date"}}
	}
	if _, err := time.Parse(domain.TimeLayout, d.Time); err != nil {
		return nil, &domain.ValidationError{Fields: []string{"time"}}
	}

	if date.Before(uc.calendar.Today()) {
		return nil, &domain.ValidationError{Fields: []string{"date"}}
	}

	// --------------------------------------------------
	// 2. Slot belongs to the template
	// --------------------------------------------------
	schedule, err := loadSchedule(ctx, uc.repo)
	if err != nil {
		return nil, err
	}
	if !schedule.Offers(date, d.Time) {
		return nil, &domain.ValidationError{Fields: []string{"time"}}
	}

	// --------------------------------------------------
	// 3. Service
	// --------------------------------------------------
	if _, err := uc.repo.GetService(ctx, d.ServiceID); err != nil {
		return nil, notFoundAs(err, domain.ErrServiceNotFound)
	}

	// --------------------------------------------------
	// 4. Fresh barbers and bookings
	// --------------------------------------------------
	barbers, err := uc.repo.ListBarbers(ctx)
	if err != nil {
		return nil, err
	}

	if d.Barber.IsAny() {
		if !anyAvailable(barbers) {
			return nil, domain.ErrNoBarberAvailable
		}
	} else {
		barber := findBarber(barbers, d.Barber.BarberID())
		if barber == nil {
			return nil, domain.ErrBarberNotFound
		}
		if !barber.IsAvailable {
			return nil, domain.ErrNoBarberAvailable
		}
	}

	bookings, err := uc.repo.ListBookings(ctx, domain.BookingFilter{
		Date:   domain.FormatDate(date),
		Status: domain.StatusUpcoming,
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Conflict filter + assignment
	// --------------------------------------------------
	if !domain.IsSlotOpen(date, d.Barber, d.Time, bookings, barbers) {
		return nil, domain.ErrSlotTaken
	}

	barberID, err := uc.resolver.ResolveBarber(d.Barber, date, d.Time, barbers, bookings)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6. Persist
	// --------------------------------------------------
	b := &models.Booking{
		UserID:    userID,
		ServiceID: d.ServiceID,
		BarberID:  barberID,
		Date:      domain.FormatDate(date),
		Time:      d.Time,
		Status:    string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking created",
		"booking_id", b.ID,
		"barber_id", b.BarberID,
		"date", b.Date,
		"time", b.Time,
		"selector", d.Barber.String(),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"barber_id": b.BarberID,
			"selector":  d.Barber.String(),
			"date":      b.Date,
			"time":      b.Time,
		},
	})

	return b, nil
}

func anyAvailable(barbers []models.Barber) bool {
	for _, b := range barbers {
		if b.IsAvailable {
			return true
		}
	}
	return false
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, domain.ErrNoBarberAvailable):
		return "no_barber_available"
	case domain.IsValidation(err):
		return "invalid"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	}
	return "rejected"
}
