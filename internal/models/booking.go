package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	BarberID uint   `gorm:"index" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	// Date is a calendar day (YYYY-MM-DD) and Time a slot label (HH:MM);
	// neither carries a time zone.
	Date string `gorm:"size:10;not null;index" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Status string `gorm:"size:20;default:'upcoming'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
