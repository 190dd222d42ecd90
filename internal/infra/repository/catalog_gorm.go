package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrBarberAccountTaken is returned when a barber already has a login, or the
// login is linked to another barber.
var ErrBarberAccountTaken = httperr.ErrBusiness("barber_account_taken")

// Bookings keep their service and barber; those rows cannot be deleted while
// referenced.
var (
	ErrServiceInUse = httperr.ErrBusiness("service_in_use")
	ErrBarberInUse  = httperr.ErrBusiness("barber_in_use")
)

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *GormRepository) CreateService(ctx context.Context, s *models.Service) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return storeErr("create service", err)
	}
	return nil
}

func (r *GormRepository) UpdateService(ctx context.Context, s *models.Service) error {
	res := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"name":     s.Name,
			"price":    s.Price,
			"duration": s.Duration,
		})
	if res.Error != nil {
		return storeErr("update service", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepository) DeleteService(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Service{}, id)
	if res.Error != nil {
		if referenced(res.Error) {
			return ErrServiceInUse
		}
		return storeErr("delete service", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Barbers
// --------------------------------------------------

func (r *GormRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrBarberAccountTaken
		}
		return storeErr("create barber", err)
	}
	return nil
}

func (r *GormRepository) UpdateBarber(ctx context.Context, b *models.Barber) error {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"name":         b.Name,
			"specialty":    b.Specialty,
			"is_available": b.IsAvailable,
		})
	if res.Error != nil {
		return storeErr("update barber", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepository) DeleteBarber(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Barber{}, id)
	if res.Error != nil {
		if referenced(res.Error) {
			return ErrBarberInUse
		}
		return storeErr("delete barber", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepository) SetBarberAvatar(ctx context.Context, id uint, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Update("avatar_url", url)
	if res.Error != nil {
		return storeErr("set barber avatar", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateBarberAccount stores the login and links it to the barber in one
// transaction, so a barber never points at a half-created user.
func (r *GormRepository) CreateBarberAccount(ctx context.Context, barberID uint, u *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Barber
		if err := tx.First(&b, barberID).Error; err != nil {
			return err
		}
		if b.UserID != nil {
			return ErrBarberAccountTaken
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Model(&models.Barber{}).
			Where("id = ?", barberID).
			Update("user_id", u.ID).Error
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrBarberAccountTaken):
		return err
	}
	if constraint, ok := uniqueViolation(err); ok {
		if constraint == "idx_barbers_user_id" {
			return ErrBarberAccountTaken
		}
		return auth.ErrEmailTaken
	}
	return storeErr("create barber account", err)
}

// --------------------------------------------------
// Template
// --------------------------------------------------

// ReplaceWorkingHours swaps the whole weekly template atomically.
func (r *GormRepository) ReplaceWorkingHours(ctx context.Context, hours []models.WorkingHours) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		return tx.Create(&hours).Error
	})
	if err != nil {
		return storeErr("replace working hours", err)
	}
	return nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

type AuditFilter struct {
	Action string
	Limit  int
}

func (r *GormRepository) ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, storeErr("list audit logs", err)
	}
	return logs, nil
}
