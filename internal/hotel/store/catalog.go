package store

import (
	"context"
	"fmt"

	"github.com/hotelhive/server/internal/hotel"
)

// Catalog is the read-only hotel metadata table, loaded once at startup.
// A hotel may appear in several rows, one per room type.
type Catalog struct {
	records []hotel.HotelRecord
	byName  map[string][]int
}

func LoadCatalog(ctx context.Context, backend Backend) (*Catalog, error) {
	records, err := backend.LoadHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hotel catalog: %w", err)
	}

	c := &Catalog{
		records: records,
		byName:  make(map[string][]int, len(records)),
	}
	for i, rec := range records {
		key := hotel.NormalizeName(rec.HotelName)
		c.byName[key] = append(c.byName[key], i)
	}
	return c, nil
}

// Get returns the first catalog row for a hotel name, case-insensitively.
func (c *Catalog) Get(hotelName string) (hotel.HotelRecord, bool) {
	idx, ok := c.byName[hotel.NormalizeName(hotelName)]
	if !ok || len(idx) == 0 {
		return hotel.HotelRecord{}, false
	}
	return c.records[idx[0]], true
}

// ByHotel returns every catalog row for a hotel name, one per room type.
func (c *Catalog) ByHotel(hotelName string) []hotel.HotelRecord {
	idx := c.byName[hotel.NormalizeName(hotelName)]
	if len(idx) == 0 {
		return nil
	}
	out := make([]hotel.HotelRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.records[i])
	}
	return out
}

// All returns a copy of every catalog row.
func (c *Catalog) All() []hotel.HotelRecord {
	out := make([]hotel.HotelRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) Len() int {
	return len(c.records)
}
