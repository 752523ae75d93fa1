package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hotelhive/server/internal/hotel"
)

const bookingIDPrefix = "BK"

// Ledger is the append-only bookings table. Booking ids come from a
// monotonic counter seeded from the highest id seen at load, so ids stay
// unique even after rolled-back commits.
type Ledger struct {
	mu      sync.Mutex
	records []hotel.BookingRecord
	byID    map[string]int
	seq     int
	backend Backend
}

func LoadLedger(ctx context.Context, backend Backend) (*Ledger, error) {
	rows, err := backend.LoadBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookings ledger: %w", err)
	}

	l := &Ledger{
		records: rows,
		byID:    make(map[string]int, len(rows)),
		backend: backend,
	}
	for i, rec := range rows {
		l.byID[rec.BookingID] = i
		if n, ok := parseBookingSeq(rec.BookingID); ok && n > l.seq {
			l.seq = n
		}
	}
	return l, nil
}

func parseBookingSeq(id string) (int, bool) {
	if !strings.HasPrefix(id, bookingIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(bookingIDPrefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextID reserves and returns the next booking id.
func (l *Ledger) NextID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return fmt.Sprintf("%s%06d", bookingIDPrefix, l.seq)
}

func (l *Ledger) Append(rec hotel.BookingRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byID[rec.BookingID]; exists {
		return fmt.Errorf("%w: %s", hotel.ErrDuplicateBooking, rec.BookingID)
	}
	l.byID[rec.BookingID] = len(l.records)
	l.records = append(l.records, rec)
	return nil
}

// Discard removes a record appended by a commit that failed to persist.
// It exists only for commit rollback; the ledger is otherwise append-only.
func (l *Ledger) Discard(bookingID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[bookingID]
	if !ok || i != len(l.records)-1 {
		return
	}
	l.records = l.records[:i]
	delete(l.byID, bookingID)
}

// RevertCancel restores a cancellation that failed to persist, putting the
// record back to confirmed. It exists only for cancel rollback, mirroring
// Discard on the create path.
func (l *Ledger) RevertCancel(bookingID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[strings.TrimSpace(bookingID)]
	if !ok || l.records[i].Status != hotel.StatusCancelled {
		return
	}
	l.records[i].Status = hotel.StatusConfirmed
}

func (l *Ledger) Get(bookingID string) (hotel.BookingRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[strings.TrimSpace(bookingID)]
	if !ok {
		return hotel.BookingRecord{}, false
	}
	return l.records[i], true
}

// ForHotel returns the most recent bookings for a hotel, newest first.
func (l *Ledger) ForHotel(hotelName string, limit int) []hotel.BookingRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := hotel.NormalizeName(hotelName)
	var out []hotel.BookingRecord
	for i := len(l.records) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if hotel.NormalizeName(l.records[i].HotelName) == key {
			out = append(out, l.records[i])
		}
	}
	return out
}

// UpdateStatus applies a status transition. The only legal transition is
// confirmed to cancelled; cancelled is terminal.
func (l *Ledger) UpdateStatus(bookingID string, status hotel.BookingStatus) (hotel.BookingRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[strings.TrimSpace(bookingID)]
	if !ok {
		return hotel.BookingRecord{}, fmt.Errorf("%w: %s", hotel.ErrBookingNotFound, bookingID)
	}

	rec := l.records[i]
	if rec.Status != hotel.StatusConfirmed || status != hotel.StatusCancelled {
		return hotel.BookingRecord{}, fmt.Errorf("%w: %s -> %s", hotel.ErrStatusTransition, rec.Status, status)
	}
	l.records[i].Status = status
	return l.records[i], nil
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Persist rewrites the backing table from the in-memory state.
func (l *Ledger) Persist(ctx context.Context) error {
	l.mu.Lock()
	snapshot := make([]hotel.BookingRecord, len(l.records))
	copy(snapshot, l.records)
	l.mu.Unlock()

	if err := l.backend.SaveBookings(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: save bookings: %v", hotel.ErrPersistence, err)
	}
	return nil
}
