package hotel

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")
	ErrUnknownHotel     = errors.New("hotel not found")
	ErrNoAvailability   = errors.New("no rooms available")
	ErrPersistence      = errors.New("persistence failed")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrStatusTransition = errors.New("invalid booking status transition")
	ErrDuplicateBooking = errors.New("duplicate booking id")
	ErrMissingSlot      = errors.New("availability slot not found")
)

// NoAvailabilityError names the first day in a requested stay that cannot be
// reserved. It matches ErrNoAvailability under errors.Is.
type NoAvailabilityError struct {
	HotelName string
	RoomType  string
	Date      string
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no %s rooms available at %s on %s", e.RoomType, e.HotelName, e.Date)
}

func (e *NoAvailabilityError) Is(target error) bool {
	return target == ErrNoAvailability
}
