package dto

import "time"

// BookingListDTO is a booking joined with the names a client needs to render it.
type BookingListDTO struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	CustomerName string    `json:"customer_name"`
	ServiceID    uint      `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	BarberID     uint      `json:"barber_id"`
	BarberName   string    `json:"barber_name"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
