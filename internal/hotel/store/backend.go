// Package store holds the resident catalog, inventory, and ledger tables.
// The full dataset stays in memory for the process lifetime; a Backend hides
// the tabular format behind load and wholesale-rewrite operations.
package store

import (
	"context"

	"github.com/hotelhive/server/internal/hotel"
)

// Backend is the persistence contract for the three tabular datasets.
// Saves rewrite the full table; there is no append-only file format.
type Backend interface {
	LoadHotels(ctx context.Context) ([]hotel.HotelRecord, error)
	LoadSlots(ctx context.Context) ([]hotel.AvailabilitySlot, error)
	LoadBookings(ctx context.Context) ([]hotel.BookingRecord, error)

	SaveSlots(ctx context.Context, slots []hotel.AvailabilitySlot) error
	SaveBookings(ctx context.Context, bookings []hotel.BookingRecord) error
}
