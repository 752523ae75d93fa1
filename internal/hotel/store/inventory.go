package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hotelhive/server/internal/hotel"
)

// Inventory is the mutable per-day availability table. All reads and writes
// go through one mutex, so a reserve is check-then-decrement atomically and
// concurrent commits for the same slot serialize here.
type Inventory struct {
	mu      sync.Mutex
	slots   map[hotel.SlotKey]*hotel.AvailabilitySlot
	order   []hotel.SlotKey
	backend Backend
}

func LoadInventory(ctx context.Context, backend Backend) (*Inventory, error) {
	rows, err := backend.LoadSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("load availability slots: %w", err)
	}

	inv := &Inventory{
		slots:   make(map[hotel.SlotKey]*hotel.AvailabilitySlot, len(rows)),
		order:   make([]hotel.SlotKey, 0, len(rows)),
		backend: backend,
	}
	for i := range rows {
		row := rows[i]
		key := row.Key()
		if _, exists := inv.slots[key]; exists {
			continue
		}
		inv.slots[key] = &row
		inv.order = append(inv.order, key)
	}
	return inv, nil
}

// Slot returns a copy of one availability row.
func (inv *Inventory) Slot(hotelName, roomType, date string) (hotel.AvailabilitySlot, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	s, ok := inv.slots[hotel.NewSlotKey(hotelName, roomType, date)]
	if !ok {
		return hotel.AvailabilitySlot{}, false
	}
	return *s, true
}

// ForHotel returns every availability row for a hotel, sorted by room type
// then date. Read-only.
func (inv *Inventory) ForHotel(hotelName string) []hotel.AvailabilitySlot {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	key := hotel.NormalizeName(hotelName)
	var out []hotel.AvailabilitySlot
	for _, k := range inv.order {
		if k.Hotel == key {
			out = append(out, *inv.slots[k])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomType != out[j].RoomType {
			return out[i].RoomType < out[j].RoomType
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// Reserve decrements one room for every listed day, all-or-nothing. If any
// day has no slot or no remaining rooms, nothing is mutated and the first
// failing day is named in the returned error.
func (inv *Inventory) Reserve(hotelName, roomType string, dates []string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, date := range dates {
		s, ok := inv.slots[hotel.NewSlotKey(hotelName, roomType, date)]
		if !ok || s.AvailableRooms <= 0 {
			return &hotel.NoAvailabilityError{
				HotelName: hotelName,
				RoomType:  roomType,
				Date:      date,
			}
		}
	}

	for _, date := range dates {
		inv.slots[hotel.NewSlotKey(hotelName, roomType, date)].AvailableRooms--
	}
	return nil
}

// Release returns one room for every listed day. The inverse of Reserve;
// days without a slot are skipped.
func (inv *Inventory) Release(hotelName, roomType string, dates []string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, date := range dates {
		if s, ok := inv.slots[hotel.NewSlotKey(hotelName, roomType, date)]; ok {
			s.AvailableRooms++
		}
	}
}

// Persist rewrites the backing table from the in-memory state.
func (inv *Inventory) Persist(ctx context.Context) error {
	inv.mu.Lock()
	snapshot := make([]hotel.AvailabilitySlot, 0, len(inv.order))
	for _, k := range inv.order {
		snapshot = append(snapshot, *inv.slots[k])
	}
	inv.mu.Unlock()

	if err := inv.backend.SaveSlots(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: save availability slots: %v", hotel.ErrPersistence, err)
	}
	return nil
}

func (inv *Inventory) Len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.slots)
}
