// Package booking holds the booking consistency workflow: validate a
// requested stay against per-day inventory, then commit the inventory
// decrement and ledger append as one logical transaction.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/hotelhive/server/internal/hotel"
	"github.com/hotelhive/server/internal/hotel/store"
)

// Request carries the five fields a booking needs plus the original
// request text for the confirmation prompt.
type Request struct {
	HotelName   string `validate:"required"`
	RoomType    string `validate:"required"`
	CheckIn     string `validate:"required,datetime=2006-01-02"`
	CheckOut    string `validate:"required,datetime=2006-01-02"`
	GuestName   string `validate:"required"`
	RequestText string
}

// Confirmation is the structured result of a committed booking.
type Confirmation struct {
	Booking    hotel.BookingRecord
	Nights     int
	TotalPrice float64
}

var ErrInvalidRequest = errors.New("invalid booking request")

type Workflow struct {
	catalog   *store.Catalog
	inventory *store.Inventory
	ledger    *store.Ledger
	validate  *validator.Validate
	now       func() time.Time
}

func NewWorkflow(catalog *store.Catalog, inventory *store.Inventory, ledger *store.Ledger) *Workflow {
	return &Workflow{
		catalog:   catalog,
		inventory: inventory,
		ledger:    ledger,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// Create validates the stay and commits it. Preconditions are checked in
// order and any failure leaves both tables untouched: date validity, known
// hotel, then availability for every night of [check_in, check_out). The
// check-out day is a departure day and needs no availability.
func (w *Workflow) Create(ctx context.Context, req Request) (Confirmation, error) {
	if err := w.validate.Struct(req); err != nil {
		return Confirmation{}, classifyValidationError(err)
	}

	checkIn, err := hotel.ParseDate(req.CheckIn)
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: invalid check-in date format, use YYYY-MM-DD", hotel.ErrInvalidDateRange)
	}
	checkOut, err := hotel.ParseDate(req.CheckOut)
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: invalid check-out date format, use YYYY-MM-DD", hotel.ErrInvalidDateRange)
	}
	if !checkOut.After(checkIn) {
		return Confirmation{}, hotel.ErrInvalidDateRange
	}

	catalogEntry, ok := w.catalog.Get(req.HotelName)
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: %s", hotel.ErrUnknownHotel, req.HotelName)
	}

	nights := hotel.StayNights(checkIn, checkOut)

	// Reserve is the atomic check-then-decrement section; everything after
	// it must either complete or roll the reservation back.
	if err := w.inventory.Reserve(req.HotelName, req.RoomType, nights); err != nil {
		return Confirmation{}, err
	}

	rec := hotel.BookingRecord{
		BookingID: w.ledger.NextID(),
		HotelName: catalogEntry.HotelName,
		RoomType:  req.RoomType,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		GuestName: req.GuestName,
		Status:    hotel.StatusConfirmed,
		CreatedAt: w.now(),
	}
	if err := w.ledger.Append(rec); err != nil {
		w.inventory.Release(req.HotelName, req.RoomType, nights)
		return Confirmation{}, err
	}

	if err := w.inventory.Persist(ctx); err != nil {
		w.ledger.Discard(rec.BookingID)
		w.inventory.Release(req.HotelName, req.RoomType, nights)
		return Confirmation{}, err
	}
	if err := w.ledger.Persist(ctx); err != nil {
		w.ledger.Discard(rec.BookingID)
		w.inventory.Release(req.HotelName, req.RoomType, nights)
		if perr := w.inventory.Persist(ctx); perr != nil {
			log.Error().Err(perr).Str("booking_id", rec.BookingID).Msg("inventory restore failed after ledger persist failure")
		}
		return Confirmation{}, err
	}

	log.Info().
		Str("booking_id", rec.BookingID).
		Str("hotel", rec.HotelName).
		Str("room_type", rec.RoomType).
		Int("nights", len(nights)).
		Msg("booking committed")

	return Confirmation{
		Booking:    rec,
		Nights:     len(nights),
		TotalPrice: nightlyPrice(w.inventory, catalogEntry, req.RoomType, nights) * float64(len(nights)),
	}, nil
}

// Cancel moves a confirmed booking to cancelled and returns its inventory
// decrement for every night of the stay.
func (w *Workflow) Cancel(ctx context.Context, bookingID string) (hotel.BookingRecord, error) {
	current, ok := w.ledger.Get(bookingID)
	if !ok {
		return hotel.BookingRecord{}, fmt.Errorf("%w: %s", hotel.ErrBookingNotFound, bookingID)
	}

	checkIn, err := hotel.ParseDate(current.CheckIn)
	if err != nil {
		return hotel.BookingRecord{}, fmt.Errorf("booking %s: corrupt check-in date: %w", bookingID, err)
	}
	checkOut, err := hotel.ParseDate(current.CheckOut)
	if err != nil {
		return hotel.BookingRecord{}, fmt.Errorf("booking %s: corrupt check-out date: %w", bookingID, err)
	}

	rec, err := w.ledger.UpdateStatus(bookingID, hotel.StatusCancelled)
	if err != nil {
		return hotel.BookingRecord{}, err
	}

	nights := hotel.StayNights(checkIn, checkOut)
	w.inventory.Release(rec.HotelName, rec.RoomType, nights)

	// A persist failure rolls the cancellation back, same as a failed
	// create commit, so memory never diverges from disk.
	if err := w.inventory.Persist(ctx); err != nil {
		w.revertCancel(ctx, rec, nights, false)
		return hotel.BookingRecord{}, err
	}
	if err := w.ledger.Persist(ctx); err != nil {
		w.revertCancel(ctx, rec, nights, true)
		return hotel.BookingRecord{}, err
	}

	log.Info().Str("booking_id", rec.BookingID).Msg("booking cancelled")
	return rec, nil
}

// revertCancel undoes an unpersisted cancellation: the record goes back to
// confirmed and the stay's nights are taken again. restoreInventory is set
// when the inventory table was already rewritten and must be rewritten back.
func (w *Workflow) revertCancel(ctx context.Context, rec hotel.BookingRecord, nights []string, restoreInventory bool) {
	w.ledger.RevertCancel(rec.BookingID)
	if err := w.inventory.Reserve(rec.HotelName, rec.RoomType, nights); err != nil {
		log.Error().Err(err).Str("booking_id", rec.BookingID).Msg("inventory re-reserve failed while rolling back cancellation")
	}
	if restoreInventory {
		if err := w.inventory.Persist(ctx); err != nil {
			log.Error().Err(err).Str("booking_id", rec.BookingID).Msg("inventory restore failed while rolling back cancellation")
		}
	}
}

// nightlyPrice prefers the inventory slot price for the first night and
// falls back to the catalog price.
func nightlyPrice(inv *store.Inventory, catalogEntry hotel.HotelRecord, roomType string, nights []string) float64 {
	if len(nights) > 0 {
		if slot, ok := inv.Slot(catalogEntry.HotelName, roomType, nights[0]); ok && slot.Price > 0 {
			return slot.Price
		}
	}
	return catalogEntry.Price
}

func classifyValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "datetime" {
				return fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", hotel.ErrInvalidDateRange)
			}
		}
		return fmt.Errorf("%w: missing field %s", ErrInvalidRequest, fieldErrs[0].Field())
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}
