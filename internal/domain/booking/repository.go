package booking

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// BookingFilter narrows ListBookings. Zero values mean "no restriction".
type BookingFilter struct {
	UserID   uint
	BarberID uint
	Date     string
	Status   Status
}

// Repository is the storage collaborator. Implementations return ErrNotFound
// for missing records and wrap every other failure in ErrStoreUnavailable.
type Repository interface {
	// -------- Services --------
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)

	// -------- Barbers --------
	ListBarbers(ctx context.Context) ([]models.Barber, error)
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error)
	SetBarberAvailability(ctx context.Context, id uint, available bool) error

	// -------- Bookings --------
	ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)

	// CreateBooking assigns b.ID. A second upcoming booking on the same
	// (barber, date, time) fails with ErrSlotTaken.
	CreateBooking(ctx context.Context, b *models.Booking) error
	SetBookingStatus(ctx context.Context, id uint, status Status) error

	// -------- Users --------
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// -------- Template --------
	ListWorkingHours(ctx context.Context) ([]models.WorkingHours, error)
}
