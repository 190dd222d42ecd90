package repository

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func (r *GormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, storeErr("get user", err)
	}
	return &u, nil
}

func (r *GormRepository) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return auth.ErrEmailTaken
		}
		return storeErr("create user", err)
	}
	return nil
}

func (r *GormRepository) FindUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&u).Error; err != nil {
		return nil, storeErr("find user by token", err)
	}
	return &u, nil
}

func (r *GormRepository) MarkUserVerified(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_verified":        true,
			"verification_token": nil,
		})
	if res.Error != nil {
		return storeErr("mark user verified", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ auth.UserStore = (*GormRepository)(nil)
