package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string  `gorm:"size:100;not null" json:"name"`
	Price    float64 `gorm:"not null;default:0" json:"price"`
	Duration int     `gorm:"not null" json:"duration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
