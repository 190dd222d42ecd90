package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AvailabilityInput struct {
	Date   string
	Barber string
}

type GetAvailability struct {
	repo     domain.Repository
	calendar *Calendar
}

func NewGetAvailability(repo domain.Repository, calendar *Calendar) *GetAvailability {
	return &GetAvailability{repo: repo, calendar: calendar}
}

// Execute lists the slot labels still bookable on a date for a barber
// selection. Past days and closed days yield an empty list.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]string, error) {

	date, sel, err := parseAvailabilityInput(in)
	if err != nil {
		return nil, err
	}

	if date.Before(uc.calendar.Today()) {
		return []string{}, nil
	}

	schedule, err := loadSchedule(ctx, uc.repo)
	if err != nil {
		return nil, err
	}

	allSlots := schedule.SlotsForDate(date)
	if len(allSlots) == 0 {
		return allSlots, nil
	}

	barbers, err := uc.repo.ListBarbers(ctx)
	if err != nil {
		return nil, err
	}

	if !sel.IsAny() {
		barber := findBarber(barbers, sel.BarberID())
		if barber == nil {
			return nil, domain.ErrBarberNotFound
		}
		if !barber.IsAvailable {
			return []string{}, nil
		}
	}

	bookings, err := uc.repo.ListBookings(ctx, domain.BookingFilter{
		Date:   domain.FormatDate(date),
		Status: domain.StatusUpcoming,
	})
	if err != nil {
		return nil, err
	}

	return domain.AvailableSlots(date, sel, allSlots, bookings, barbers), nil
}

func parseAvailabilityInput(in AvailabilityInput) (time.Time, domain.Selector, error) {
	var fields []string

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		fields = append(fields, "date")
	}

	sel, err := domain.ParseSelector(in.Barber)
	if err != nil || sel.IsZero() {
		fields = append(fields, "barber")
	}

	if len(fields) > 0 {
		return time.Time{}, domain.Selector{}, &domain.ValidationError{Fields: fields}
	}
	return date, sel, nil
}

func findBarber(barbers []models.Barber, id uint) *models.Barber {
	for i := range barbers {
		if barbers[i].ID == id {
			return &barbers[i]
		}
	}
	return nil
}
