// Package bunstore is a PostgreSQL tabular backend, selectable instead of
// the CSV files when a DSN is configured. Saves keep the wholesale-rewrite
// semantics of the flat files, but inside one transaction.
package bunstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/hotelhive/server/internal/hotel"
)

type hotelRow struct {
	bun.BaseModel `bun:"table:hotels"`

	ID          int64   `bun:"id,pk,autoincrement"`
	HotelID     string  `bun:"hotel_id"`
	HotelName   string  `bun:"hotel_name,notnull"`
	City        string  `bun:"city"`
	State       string  `bun:"state"`
	County      string  `bun:"county"`
	Address     string  `bun:"address"`
	ContactInfo string  `bun:"contact_info"`
	RoomType    string  `bun:"room_type,notnull"`
	Price       float64 `bun:"price"`
	Amenities   string  `bun:"amenities"`
}

type slotRow struct {
	bun.BaseModel `bun:"table:availability_slots"`

	ID             int64   `bun:"id,pk,autoincrement"`
	HotelName      string  `bun:"hotel_name,notnull"`
	RoomType       string  `bun:"room_type,notnull"`
	Date           string  `bun:"date,notnull"`
	AvailableRooms int     `bun:"available_rooms,notnull"`
	Price          float64 `bun:"price"`
}

type bookingRow struct {
	bun.BaseModel `bun:"table:bookings"`

	ID        int64     `bun:"id,pk,autoincrement"`
	BookingID string    `bun:"booking_id,notnull,unique"`
	HotelName string    `bun:"hotel_name,notnull"`
	RoomType  string    `bun:"room_type,notnull"`
	CheckIn   string    `bun:"check_in,notnull"`
	CheckOut  string    `bun:"check_out,notnull"`
	GuestName string    `bun:"guest_name"`
	Status    string    `bun:"status,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type Backend struct {
	db *bun.DB
}

func New(dsn string) (*Backend, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &Backend{db: db}, nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

// EnsureSchema creates the three tables if they do not exist.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	models := []any{(*hotelRow)(nil), (*slotRow)(nil), (*bookingRow)(nil)}
	for _, m := range models {
		if _, err := b.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
	}
	return nil
}

func (b *Backend) LoadHotels(ctx context.Context) ([]hotel.HotelRecord, error) {
	var rows []hotelRow
	if err := b.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select hotels: %w", err)
	}

	records := make([]hotel.HotelRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, hotel.HotelRecord{
			HotelID:     row.HotelID,
			HotelName:   row.HotelName,
			City:        row.City,
			State:       row.State,
			County:      row.County,
			Address:     row.Address,
			ContactInfo: row.ContactInfo,
			RoomType:    row.RoomType,
			Price:       row.Price,
			Amenities:   splitAmenities(row.Amenities),
		})
	}
	return records, nil
}

func (b *Backend) LoadSlots(ctx context.Context) ([]hotel.AvailabilitySlot, error) {
	var rows []slotRow
	if err := b.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select availability slots: %w", err)
	}

	slots := make([]hotel.AvailabilitySlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, hotel.AvailabilitySlot{
			HotelName:      row.HotelName,
			RoomType:       row.RoomType,
			Date:           row.Date,
			AvailableRooms: row.AvailableRooms,
			Price:          row.Price,
		})
	}
	return slots, nil
}

func (b *Backend) LoadBookings(ctx context.Context) ([]hotel.BookingRecord, error) {
	var rows []bookingRow
	if err := b.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}

	bookings := make([]hotel.BookingRecord, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, hotel.BookingRecord{
			BookingID: row.BookingID,
			HotelName: row.HotelName,
			RoomType:  row.RoomType,
			CheckIn:   row.CheckIn,
			CheckOut:  row.CheckOut,
			GuestName: row.GuestName,
			Status:    hotel.BookingStatus(row.Status),
			CreatedAt: row.CreatedAt,
		})
	}
	return bookings, nil
}

func (b *Backend) SaveSlots(ctx context.Context, slots []hotel.AvailabilitySlot) error {
	rows := make([]slotRow, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, slotRow{
			HotelName:      s.HotelName,
			RoomType:       s.RoomType,
			Date:           s.Date,
			AvailableRooms: s.AvailableRooms,
			Price:          s.Price,
		})
	}

	return b.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewTruncateTable().Model((*slotRow)(nil)).Exec(ctx); err != nil {
			return fmt.Errorf("truncate availability slots: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert availability slots: %w", err)
		}
		return nil
	})
}

func (b *Backend) SaveBookings(ctx context.Context, bookings []hotel.BookingRecord) error {
	rows := make([]bookingRow, 0, len(bookings))
	for _, rec := range bookings {
		rows = append(rows, bookingRow{
			BookingID: rec.BookingID,
			HotelName: rec.HotelName,
			RoomType:  rec.RoomType,
			CheckIn:   rec.CheckIn,
			CheckOut:  rec.CheckOut,
			GuestName: rec.GuestName,
			Status:    string(rec.Status),
			CreatedAt: rec.CreatedAt,
		})
	}

	return b.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewTruncateTable().Model((*bookingRow)(nil)).Exec(ctx); err != nil {
			return fmt.Errorf("truncate bookings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert bookings: %w", err)
		}
		return nil
	})
}

func splitAmenities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
