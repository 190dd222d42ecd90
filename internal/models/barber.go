package models

import "time"

// Barber is the staff record shown to customers. Its login identity, when it
// has one, is the User referenced by UserID.
type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint `gorm:"uniqueIndex" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Specialty   string `gorm:"size:100" json:"specialty"`
	AvatarURL   string `gorm:"size:255" json:"avatar_url"`
	IsAvailable bool   `gorm:"not null" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
