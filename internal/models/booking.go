package models

import (
	"time"
)

// Booking is a reservation of one room for a half-open date range
// [CheckIn, CheckOut).
type Booking struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	RoomID           uint      `json:"room_id" gorm:"not null;index"`
	CheckIn          time.Time `json:"check_in" gorm:"type:date;not null;index"`
	CheckOut         time.Time `json:"check_out" gorm:"type:date;not null;index"`
	Guests           int       `json:"guests" gorm:"not null"`
	TotalPrice       float64   `json:"total_price" gorm:"not null"`
	Status           string    `json:"status" gorm:"size:20;default:pending;index"`
	BookingReference string    `json:"booking_reference" gorm:"size:20;uniqueIndex"`
	SpecialRequests  string    `json:"special_requests"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room    *Room    `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:BookingID"`
}

// BookingStatus constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// ActiveBookingStatuses are the statuses that hold a room's dates.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

// IsActive reports whether the booking blocks its room for its date range.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal reports whether the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// NightsBetween counts whole calendar days from checkIn to checkOut.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}
