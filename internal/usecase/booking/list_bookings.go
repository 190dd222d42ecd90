package booking

import (
	"context"
	"slices"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type ListFilter struct {
	Date     string
	Status   string
	BarberID uint
}

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute lists the bookings visible to actor: a customer's own, a barber's
// schedule, or everything for admins. Newest day first, then by time.
func (uc *ListBookings) Execute(
	ctx context.Context,
	actor Actor,
	in ListFilter,
) ([]dto.BookingListDTO, error) {

	filter := domain.BookingFilter{Date: in.Date}

	if in.Date != "" {
		if _, err := domain.ParseDate(in.Date); err != nil {
			return nil, &domain.ValidationError{Fields: []string{"date"}}
		}
	}
	if in.Status != "" {
		st, ok := domain.ParseStatus(in.Status)
		if !ok {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		filter.Status = st
	}

	switch actor.Role {
	case auth.RoleCustomer:
		filter.UserID = actor.UserID
	case auth.RoleBarber:
		barber, err := uc.repo.GetBarberByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, notFoundAs(err, domain.ErrForbidden)
		}
		filter.BarberID = barber.ID
	case auth.RoleAdmin:
		filter.BarberID = in.BarberID
	default:
		return nil, domain.ErrForbidden
	}

	bookings, err := uc.repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, err
	}

	services, err := uc.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	serviceNames := make(map[uint]string, len(services))
	for _, s := range services {
		serviceNames[s.ID] = s.Name
	}

	barbers, err := uc.repo.ListBarbers(ctx)
	if err != nil {
		return nil, err
	}
	barberNames := make(map[uint]string, len(barbers))
	for _, b := range barbers {
		barberNames[b.ID] = b.Name
	}

	customerNames := map[uint]string{}
	if actor.Role != auth.RoleCustomer {
		users, err := uc.repo.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			customerNames[u.ID] = u.Name
		}
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:           b.ID,
			UserID:       b.UserID,
			CustomerName: customerNames[b.UserID],
			ServiceID:    b.ServiceID,
			ServiceName:  serviceNames[b.ServiceID],
			BarberID:     b.BarberID,
			BarberName:   barberNames[b.BarberID],
			Date:         b.Date,
			Time:         b.Time,
			Status:       b.Status,
			CreatedAt:    b.CreatedAt,
		})
	}

	slices.SortStableFunc(out, func(a, b dto.BookingListDTO) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})

	return out, nil
}
