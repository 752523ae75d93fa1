package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotelhive/server/internal/hotel"
)

type fakeBackend struct {
	hotels   []hotel.HotelRecord
	slots    []hotel.AvailabilitySlot
	bookings []hotel.BookingRecord

	savedSlots    [][]hotel.AvailabilitySlot
	savedBookings [][]hotel.BookingRecord

	saveSlotsErr    error
	saveBookingsErr error
}

func (f *fakeBackend) LoadHotels(ctx context.Context) ([]hotel.HotelRecord, error) {
	return f.hotels, nil
}

func (f *fakeBackend) LoadSlots(ctx context.Context) ([]hotel.AvailabilitySlot, error) {
	return f.slots, nil
}

func (f *fakeBackend) LoadBookings(ctx context.Context) ([]hotel.BookingRecord, error) {
	return f.bookings, nil
}

func (f *fakeBackend) SaveSlots(ctx context.Context, slots []hotel.AvailabilitySlot) error {
	if f.saveSlotsErr != nil {
		return f.saveSlotsErr
	}
	f.savedSlots = append(f.savedSlots, append([]hotel.AvailabilitySlot(nil), slots...))
	return nil
}

func (f *fakeBackend) SaveBookings(ctx context.Context, bookings []hotel.BookingRecord) error {
	if f.saveBookingsErr != nil {
		return f.saveBookingsErr
	}
	f.savedBookings = append(f.savedBookings, append([]hotel.BookingRecord(nil), bookings...))
	return nil
}

func testSlots() []hotel.AvailabilitySlot {
	return []hotel.AvailabilitySlot{
		{HotelName: "Hotel_1", RoomType: "Single", Date: "2025-09-20", AvailableRooms: 2, Price: 120},
		{HotelName: "Hotel_1", RoomType: "Single", Date: "2025-09-21", AvailableRooms: 2, Price: 120},
		{HotelName: "Hotel_1", RoomType: "Single", Date: "2025-09-22", AvailableRooms: 0, Price: 120},
	}
}

func TestInventoryReserveRejectsWhenAnyNightIsFull(t *testing.T) {
	t.Parallel()

	inv, err := LoadInventory(context.Background(), &fakeBackend{slots: testSlots()})
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}

	err = inv.Reserve("Hotel_1", "Single", []string{"2025-09-20", "2025-09-21", "2025-09-22"})
	if !errors.Is(err, hotel.ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}

	var noAvail *hotel.NoAvailabilityError
	if !errors.As(err, &noAvail) {
		t.Fatalf("expected NoAvailabilityError, got %T", err)
	}
	if noAvail.Date != "2025-09-22" {
		t.Fatalf("expected failing date 2025-09-22, got %s", noAvail.Date)
	}

	// Nothing may be decremented by a rejected reservation.
	for _, date := range []string{"2025-09-20", "2025-09-21"} {
		s, ok := inv.Slot("Hotel_1", "Single", date)
		if !ok || s.AvailableRooms != 2 {
			t.Fatalf("slot %s mutated by rejected reserve: %+v", date, s)
		}
	}
}

func TestInventoryReserveDecrementsEveryNight(t *testing.T) {
	t.Parallel()

	inv, err := LoadInventory(context.Background(), &fakeBackend{slots: testSlots()})
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}

	if err := inv.Reserve("Hotel_1", "Single", []string{"2025-09-20", "2025-09-21"}); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	for _, date := range []string{"2025-09-20", "2025-09-21"} {
		s, _ := inv.Slot("Hotel_1", "Single", date)
		if s.AvailableRooms != 1 {
			t.Fatalf("expected 1 room left on %s, got %d", date, s.AvailableRooms)
		}
	}
	// The untouched night keeps its count.
	if s, _ := inv.Slot("Hotel_1", "Single", "2025-09-22"); s.AvailableRooms != 0 {
		t.Fatalf("unexpected mutation of 2025-09-22: %+v", s)
	}
}

func TestInventoryReleaseRestoresCounts(t *testing.T) {
	t.Parallel()

	inv, err := LoadInventory(context.Background(), &fakeBackend{slots: testSlots()})
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}

	nights := []string{"2025-09-20", "2025-09-21"}
	if err := inv.Reserve("Hotel_1", "Single", nights); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	inv.Release("Hotel_1", "Single", nights)

	for _, date := range nights {
		s, _ := inv.Slot("Hotel_1", "Single", date)
		if s.AvailableRooms != 2 {
			t.Fatalf("expected count restored on %s, got %d", date, s.AvailableRooms)
		}
	}
}

func TestInventoryLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	inv, err := LoadInventory(context.Background(), &fakeBackend{slots: testSlots()})
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}

	if _, ok := inv.Slot("hotel_1", "Single", "2025-09-20"); !ok {
		t.Fatal("expected lowercased hotel name to resolve")
	}
	if err := inv.Reserve("HOTEL_1", "Single", []string{"2025-09-20"}); err != nil {
		t.Fatalf("Reserve() with upper-cased name error = %v", err)
	}
}

func TestInventoryPersistFailureWrapsPersistenceError(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{slots: testSlots(), saveSlotsErr: errors.New("disk full")}
	inv, err := LoadInventory(context.Background(), backend)
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}

	if err := inv.Persist(context.Background()); !errors.Is(err, hotel.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestLedgerNextIDMonotonicAcrossDiscard(t *testing.T) {
	t.Parallel()

	ledger, err := LoadLedger(context.Background(), &fakeBackend{
		bookings: []hotel.BookingRecord{
			{BookingID: "BK000007", HotelName: "Hotel_1", Status: hotel.StatusConfirmed},
		},
	})
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}

	first := ledger.NextID()
	if first != "BK000008" {
		t.Fatalf("expected BK000008, got %s", first)
	}

	if err := ledger.Append(hotel.BookingRecord{BookingID: first, Status: hotel.StatusConfirmed}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	ledger.Discard(first)

	// A discarded id is never reused.
	if second := ledger.NextID(); second != "BK000009" {
		t.Fatalf("expected BK000009 after discard, got %s", second)
	}
}

func TestLedgerAppendRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	ledger, err := LoadLedger(context.Background(), &fakeBackend{})
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}

	rec := hotel.BookingRecord{BookingID: "BK000001", Status: hotel.StatusConfirmed}
	if err := ledger.Append(rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := ledger.Append(rec); !errors.Is(err, hotel.ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}
}

func TestLedgerUpdateStatusTransitions(t *testing.T) {
	t.Parallel()

	ledger, err := LoadLedger(context.Background(), &fakeBackend{
		bookings: []hotel.BookingRecord{
			{BookingID: "BK000001", HotelName: "Hotel_1", Status: hotel.StatusConfirmed, CreatedAt: time.Now()},
		},
	})
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}

	rec, err := ledger.UpdateStatus("BK000001", hotel.StatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if rec.Status != hotel.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", rec.Status)
	}

	// Cancelled is terminal.
	if _, err := ledger.UpdateStatus("BK000001", hotel.StatusCancelled); !errors.Is(err, hotel.ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition, got %v", err)
	}

	if _, err := ledger.UpdateStatus("BK999999", hotel.StatusCancelled); !errors.Is(err, hotel.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestCatalogLookups(t *testing.T) {
	t.Parallel()

	catalog, err := LoadCatalog(context.Background(), &fakeBackend{
		hotels: []hotel.HotelRecord{
			{HotelName: "Hotel_1", City: "San Francisco", RoomType: "Single", Price: 120},
			{HotelName: "Hotel_1", City: "San Francisco", RoomType: "Double", Price: 180},
			{HotelName: "Hotel_2", City: "San Francisco", RoomType: "Single", Price: 95},
		},
	})
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	rec, ok := catalog.Get("hotel_1")
	if !ok || rec.RoomType != "Single" {
		t.Fatalf("Get() = %+v, %v", rec, ok)
	}

	rooms := catalog.ByHotel("HOTEL_1")
	if len(rooms) != 2 {
		t.Fatalf("expected 2 room rows for Hotel_1, got %d", len(rooms))
	}

	if _, ok := catalog.Get("Hotel_9"); ok {
		t.Fatal("expected unknown hotel to miss")
	}
}
