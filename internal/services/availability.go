package services

import (
	"time"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// share at least one night.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !(!aOut.After(bIn) || !aIn.Before(bOut))
}

// IsRoomAvailable reports whether no active booking in bookings overlaps
// [checkIn, checkOut). Bookings of other rooms must be filtered out by the
// caller.
func IsRoomAvailable(bookings []*models.Booking, checkIn, checkOut time.Time) bool {
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}
		if Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			return false
		}
	}
	return true
}
