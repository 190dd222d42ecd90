package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *GormRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&services).Error; err != nil {
		return nil, storeErr("list services", err)
	}
	return services, nil
}

func (r *GormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, storeErr("get service", err)
	}
	return &s, nil
}

// --------------------------------------------------
// Barbers
// --------------------------------------------------

func (r *GormRepository) ListBarbers(ctx context.Context) ([]models.Barber, error) {
	var barbers []models.Barber
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&barbers).Error; err != nil {
		return nil, storeErr("list barbers", err)
	}
	return barbers, nil
}

func (r *GormRepository) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, storeErr("get barber", err)
	}
	return &b, nil
}

func (r *GormRepository) GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&b).Error; err != nil {
		return nil, storeErr("get barber by user", err)
	}
	return &b, nil
}

func (r *GormRepository) SetBarberAvailability(ctx context.Context, id uint, available bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Update("is_available", available)
	if res.Error != nil {
		return storeErr("set barber availability", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *GormRepository) ListBookings(ctx context.Context, f domain.BookingFilter) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.BarberID != 0 {
		q = q.Where("barber_id = ?", f.BarberID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var bookings []models.Booking
	if err := q.Order("date DESC").Order("time ASC").Find(&bookings).Error; err != nil {
		return nil, storeErr("list bookings", err)
	}
	return bookings, nil
}

func (r *GormRepository) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, storeErr("get booking", err)
	}
	return &b, nil
}

// CreateBooking re-checks the slot under a row lock and relies on the
// partial unique index for the race the lock cannot see (no row yet).
func (r *GormRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"barber_id = ? AND date = ? AND time = ? AND status = ?",
				b.BarberID, b.Date, b.Time, string(domain.StatusUpcoming),
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return domain.ErrSlotTaken
		}

		return tx.Omit(clause.Associations).Create(b).Error
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrSlotTaken):
		return err
	}

	if constraint, ok := uniqueViolation(err); ok && (constraint == "" || constraint == upcomingSlotIndex) {
		return domain.ErrSlotTaken
	}
	return storeErr("create booking", err)
}

func (r *GormRepository) SetBookingStatus(ctx context.Context, id uint, status domain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return storeErr("set booking status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *GormRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

func (r *GormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error; err != nil {
		return nil, storeErr("find user by email", err)
	}
	return &u, nil
}

// --------------------------------------------------
// Template
// --------------------------------------------------

func (r *GormRepository) ListWorkingHours(ctx context.Context) ([]models.WorkingHours, error) {
	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).Order("weekday ASC").Find(&hours).Error; err != nil {
		return nil, storeErr("list working hours", err)
	}
	return hours, nil
}

// Compile-time check
var _ domain.Repository = (*GormRepository)(nil)
