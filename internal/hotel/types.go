package hotel

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day format used across the catalog, inventory,
// and ledger tables.
const DateLayout = "2006-01-02"

// CreatedAtLayout is the timestamp format persisted in the bookings table.
const CreatedAtLayout = "2006-01-02 15:04:05"

// HotelRecord is one row of the hotel catalog. Immutable after load.
// The canonical identity key is the lower-cased hotel name; HotelID is kept
// as data but never used for lookups.
type HotelRecord struct {
	HotelID     string   `json:"hotel_id"`
	HotelName   string   `json:"hotel_name"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	County      string   `json:"county"`
	Address     string   `json:"address"`
	ContactInfo string   `json:"contact_info"`
	RoomType    string   `json:"room_type"`
	Price       float64  `json:"price"`
	Amenities   []string `json:"amenities"`
}

// AvailabilitySlot is one (hotel, room type, day) inventory row.
// AvailableRooms never goes negative; any mutation that would is rejected
// before it is applied.
type AvailabilitySlot struct {
	HotelName      string  `json:"hotel_name"`
	RoomType       string  `json:"room_type"`
	Date           string  `json:"date"`
	AvailableRooms int     `json:"available_rooms"`
	Price          float64 `json:"price"`
}

// SlotKey is the composite inventory key. Hotel and room type are matched
// case-insensitively.
type SlotKey struct {
	Hotel    string
	RoomType string
	Date     string
}

func NewSlotKey(hotelName, roomType, date string) SlotKey {
	return SlotKey{
		Hotel:    NormalizeName(hotelName),
		RoomType: NormalizeName(roomType),
		Date:     strings.TrimSpace(date),
	}
}

func (s AvailabilitySlot) Key() SlotKey {
	return NewSlotKey(s.HotelName, s.RoomType, s.Date)
}

// NormalizeName lower-cases and trims an identity string for lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// BookingRecord is one row of the append-only bookings ledger.
type BookingRecord struct {
	BookingID string        `json:"booking_id"`
	HotelName string        `json:"hotel_name"`
	RoomType  string        `json:"room_type"`
	CheckIn   string        `json:"check_in"`
	CheckOut  string        `json:"check_out"`
	GuestName string        `json:"guest_name"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// StayNights expands [checkIn, checkOut) into its per-day date strings.
// The check-out day is a departure day and is not part of the stay.
func StayNights(checkIn, checkOut time.Time) []string {
	var nights []string
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d.Format(DateLayout))
	}
	return nights
}
