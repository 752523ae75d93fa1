package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hotelhive/server/internal/hotel"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadHotels(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, HotelsFile,
		"hotel_id,hotel_name,city,state,county,address,contact_info,room_type,price,amenities\n"+
			"H001,Hotel_1,San Francisco,CA,San Francisco,101 Market St,+1-415-555-0101,Single,120,WiFi;Breakfast\n")

	records, err := New(dir).LoadHotels(context.Background())
	if err != nil {
		t.Fatalf("LoadHotels() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.HotelName != "Hotel_1" || rec.Price != 120 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Amenities) != 2 || rec.Amenities[0] != "WiFi" {
		t.Fatalf("unexpected amenities: %v", rec.Amenities)
	}
}

func TestSlotsRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend := New(dir)

	slots := []hotel.AvailabilitySlot{
		{HotelName: "Hotel_1", RoomType: "Single", Date: "2025-09-20", AvailableRooms: 2, Price: 120},
		{HotelName: "Hotel_1", RoomType: "Single", Date: "2025-09-21", AvailableRooms: 0, Price: 120.5},
	}
	if err := backend.SaveSlots(context.Background(), slots); err != nil {
		t.Fatalf("SaveSlots() error = %v", err)
	}

	loaded, err := backend.LoadSlots(context.Background())
	if err != nil {
		t.Fatalf("LoadSlots() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(loaded))
	}
	if loaded[1].AvailableRooms != 0 || loaded[1].Price != 120.5 {
		t.Fatalf("unexpected slot: %+v", loaded[1])
	}
}

func TestBookingsRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend := New(dir)

	createdAt, _ := time.Parse(hotel.CreatedAtLayout, "2025-09-01 10:30:00")
	bookings := []hotel.BookingRecord{
		{
			BookingID: "BK000001",
			HotelName: "Hotel_1",
			RoomType:  "Single",
			CheckIn:   "2025-09-20",
			CheckOut:  "2025-09-22",
			GuestName: "Ada Lovelace",
			Status:    hotel.StatusConfirmed,
			CreatedAt: createdAt,
		},
	}
	if err := backend.SaveBookings(context.Background(), bookings); err != nil {
		t.Fatalf("SaveBookings() error = %v", err)
	}

	loaded, err := backend.LoadBookings(context.Background())
	if err != nil {
		t.Fatalf("LoadBookings() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(loaded))
	}
	if loaded[0].BookingID != "BK000001" || !loaded[0].CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected booking: %+v", loaded[0])
	}
}

func TestLoadBookingsMissingFileMeansEmptyLedger(t *testing.T) {
	t.Parallel()

	loaded, err := New(t.TempDir()).LoadBookings(context.Background())
	if err != nil {
		t.Fatalf("LoadBookings() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty ledger, got %d", len(loaded))
	}
}

func TestLoadSlotsMissingFileFails(t *testing.T) {
	t.Parallel()

	if _, err := New(t.TempDir()).LoadSlots(context.Background()); err == nil {
		t.Fatal("expected error for missing availability file")
	}
}
