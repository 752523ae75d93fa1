// Package csvfile is the default tabular backend: three flat CSV files
// rewritten wholesale on mutation.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hotelhive/server/internal/hotel"
)

const (
	HotelsFile   = "hotels.csv"
	SlotsFile    = "availability.csv"
	BookingsFile = "bookings.csv"
)

const amenitySeparator = ";"

var (
	hotelHeader   = []string{"hotel_id", "hotel_name", "city", "state", "county", "address", "contact_info", "room_type", "price", "amenities"}
	slotHeader    = []string{"hotel_name", "room_type", "date", "available_rooms", "price"}
	bookingHeader = []string{"booking_id", "hotel_name", "room_type", "check_in", "check_out", "guest_name", "status", "created_at"}
)

type Backend struct {
	dir string
}

func New(dir string) *Backend {
	return &Backend{dir: dir}
}

func (b *Backend) LoadHotels(ctx context.Context) ([]hotel.HotelRecord, error) {
	rows, err := readTable(filepath.Join(b.dir, HotelsFile), len(hotelHeader))
	if err != nil {
		return nil, err
	}

	records := make([]hotel.HotelRecord, 0, len(rows))
	for _, row := range rows {
		price, err := strconv.ParseFloat(row[8], 64)
		if err != nil {
			return nil, fmt.Errorf("hotel %q: parse price: %w", row[1], err)
		}
		records = append(records, hotel.HotelRecord{
			HotelID:     row[0],
			HotelName:   row[1],
			City:        row[2],
			State:       row[3],
			County:      row[4],
			Address:     row[5],
			ContactInfo: row[6],
			RoomType:    row[7],
			Price:       price,
			Amenities:   splitAmenities(row[9]),
		})
	}
	return records, nil
}

func (b *Backend) LoadSlots(ctx context.Context) ([]hotel.AvailabilitySlot, error) {
	rows, err := readTable(filepath.Join(b.dir, SlotsFile), len(slotHeader))
	if err != nil {
		return nil, err
	}

	slots := make([]hotel.AvailabilitySlot, 0, len(rows))
	for _, row := range rows {
		rooms, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("slot %q/%q/%q: parse available_rooms: %w", row[0], row[1], row[2], err)
		}
		price, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("slot %q/%q/%q: parse price: %w", row[0], row[1], row[2], err)
		}
		slots = append(slots, hotel.AvailabilitySlot{
			HotelName:      row[0],
			RoomType:       row[1],
			Date:           row[2],
			AvailableRooms: rooms,
			Price:          price,
		})
	}
	return slots, nil
}

func (b *Backend) LoadBookings(ctx context.Context) ([]hotel.BookingRecord, error) {
	path := filepath.Join(b.dir, BookingsFile)
	rows, err := readTable(path, len(bookingHeader))
	if err != nil {
		// A missing bookings file means an empty ledger, matching the
		// behavior of the availability and catalog files being required.
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	bookings := make([]hotel.BookingRecord, 0, len(rows))
	for _, row := range rows {
		createdAt, err := time.Parse(hotel.CreatedAtLayout, row[7])
		if err != nil {
			return nil, fmt.Errorf("booking %q: parse created_at: %w", row[0], err)
		}
		bookings = append(bookings, hotel.BookingRecord{
			BookingID: row[0],
			HotelName: row[1],
			RoomType:  row[2],
			CheckIn:   row[3],
			CheckOut:  row[4],
			GuestName: row[5],
			Status:    hotel.BookingStatus(row[6]),
			CreatedAt: createdAt,
		})
	}
	return bookings, nil
}

func (b *Backend) SaveSlots(ctx context.Context, slots []hotel.AvailabilitySlot) error {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []string{
			s.HotelName,
			s.RoomType,
			s.Date,
			strconv.Itoa(s.AvailableRooms),
			formatPrice(s.Price),
		})
	}
	return writeTable(filepath.Join(b.dir, SlotsFile), slotHeader, rows)
}

func (b *Backend) SaveBookings(ctx context.Context, bookings []hotel.BookingRecord) error {
	rows := make([][]string, 0, len(bookings))
	for _, rec := range bookings {
		rows = append(rows, []string{
			rec.BookingID,
			rec.HotelName,
			rec.RoomType,
			rec.CheckIn,
			rec.CheckOut,
			rec.GuestName,
			string(rec.Status),
			rec.CreatedAt.Format(hotel.CreatedAtLayout),
		})
	}
	return writeTable(filepath.Join(b.dir, BookingsFile), bookingHeader, rows)
}

func readTable(path string, width int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = width

	// Header row is present but not trusted for column order.
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// writeTable rewrites the file through a temp file plus rename so a crash
// mid-save never truncates the table.
func writeTable(path string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func splitAmenities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, amenitySeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
