package models

import "time"

// WorkingHours is one weekday of the shop-wide booking template.
type WorkingHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Weekday int `gorm:"uniqueIndex" json:"weekday"`

	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	LunchStart  string `json:"lunch_start"`
	LunchEnd    string `json:"lunch_end"`
	SlotMinutes int    `gorm:"default:30" json:"slot_minutes"`
	Active      bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
