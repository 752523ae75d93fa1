// Package toolhost executes routed tool calls against the hotel data and
// renders their replies. Availability reads are deterministic; search and
// conversation go through the responder model.
package toolhost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/hotelhive/server/agent/contract"
	"github.com/hotelhive/server/internal/booking"
	"github.com/hotelhive/server/internal/hotel"
	"github.com/hotelhive/server/internal/hotel/store"
)

// Error codes carried in tool error payloads.
const (
	CodeInvalidDateRange         = "invalid_date_range"
	CodeUnknownHotel             = "unknown_hotel"
	CodeInsufficientAvailability = "insufficient_availability"
	CodeBookingNotFound          = "booking_not_found"
	CodeStatusTransition         = "status_transition"
	CodeInvalidRequest           = "invalid_request"
	CodePersistenceFailure       = "persistence_failure"
	CodeModelTimeout             = "external_model_timeout"
	CodeModelError               = "external_model_error"
)

// searchCatalogLimit bounds how many catalog rows are inlined into the
// search prompt.
const searchCatalogLimit = 50

type Host struct {
	catalog   *store.Catalog
	inventory *store.Inventory
	ledger    *store.Ledger
	workflow  *booking.Workflow
	responder contractx.Responder
}

func New(catalog *store.Catalog, inventory *store.Inventory, ledger *store.Ledger, workflow *booking.Workflow, responder contractx.Responder) *Host {
	return &Host{
		catalog:   catalog,
		inventory: inventory,
		ledger:    ledger,
		workflow:  workflow,
		responder: responder,
	}
}

// Execute runs one routed tool call and returns the rendered reply.
// Domain failures are rendered as a JSON error payload with suggestions,
// not returned as errors; only infrastructure failures propagate.
func (h *Host) Execute(ctx context.Context, sessionID string, call contractx.ToolCall) (contractx.ToolReply, error) {
	log.Debug().Str("session_id", sessionID).Str("tool", call.Tool).Msg("executing tool call")

	switch call.Tool {
	case contractx.ToolConversationAssistant:
		return h.conversationAssistant(ctx, call)
	case contractx.ToolHotelSearch:
		return h.hotelSearch(ctx, call)
	case contractx.ToolHotelAvailability:
		return h.hotelAvailability(ctx, call)
	case contractx.ToolCreateBooking:
		return h.createBooking(ctx, call)
	}
	return contractx.ToolReply{}, fmt.Errorf("%w: unknown tool %q", contractx.ErrValidation, call.Tool)
}

func (h *Host) conversationAssistant(ctx context.Context, call contractx.ToolCall) (contractx.ToolReply, error) {
	reply, err := h.responder.Converse(ctx, call.Message, call.History, call.AskFor, call.Known)
	if err != nil {
		return renderToolError(err, "")
	}
	return contractx.ToolReply{Text: reply}, nil
}

func (h *Host) hotelSearch(ctx context.Context, call contractx.ToolCall) (contractx.ToolReply, error) {
	records := h.catalog.All()
	if len(records) > searchCatalogLimit {
		records = records[:searchCatalogLimit]
	}
	data, err := json.Marshal(records)
	if err != nil {
		return contractx.ToolReply{}, fmt.Errorf("marshal catalog: %w", err)
	}

	result, err := h.responder.SearchHotels(ctx, call.Message, string(data))
	if err != nil {
		return renderToolError(err, "Try broadening your search criteria.")
	}
	if strings.TrimSpace(result.Answer) == "" {
		return renderErrorPayload("No hotels found matching your criteria.",
			"Try broadening your search (e.g., different dates, higher budget, or other locations).", "")
	}
	return contractx.ToolReply{Text: renderSearchResult(result)}, nil
}

// hotelAvailability answers from the inventory table directly; no model
// call, so counts are always exact.
func (h *Host) hotelAvailability(ctx context.Context, call contractx.ToolCall) (contractx.ToolReply, error) {
	catalogEntry, ok := h.catalog.Get(call.HotelName)
	if !ok {
		return renderErrorPayload(fmt.Sprintf("Hotel %s not found", call.HotelName),
			"Check the hotel name or search for hotels first.", CodeUnknownHotel)
	}

	slots := h.inventory.ForHotel(call.HotelName)
	if len(slots) == 0 {
		return renderErrorPayload(fmt.Sprintf("No availability for %s.", call.HotelName),
			"Try different dates or another hotel.", "")
	}

	result := contractx.AvailabilityResult{
		HotelName: catalogEntry.HotelName,
		Rooms:     make([]contractx.RoomAvailability, 0, len(slots)),
	}
	for _, s := range slots {
		if s.AvailableRooms > 0 {
			result.Available = true
		}
		result.Rooms = append(result.Rooms, contractx.RoomAvailability{
			RoomType: s.RoomType,
			Date:     s.Date,
			Rooms:    s.AvailableRooms,
			Price:    s.Price,
		})
	}

	b, err := json.Marshal(result)
	if err != nil {
		return contractx.ToolReply{}, fmt.Errorf("marshal availability: %w", err)
	}
	return contractx.ToolReply{Text: string(b)}, nil
}

func (h *Host) createBooking(ctx context.Context, call contractx.ToolCall) (contractx.ToolReply, error) {
	conf, err := h.workflow.Create(ctx, booking.Request{
		HotelName:   call.Booking.HotelName,
		RoomType:    call.Booking.RoomType,
		CheckIn:     call.Booking.CheckIn,
		CheckOut:    call.Booking.CheckOut,
		GuestName:   call.Booking.GuestName,
		RequestText: call.Message,
	})
	if err != nil {
		return renderToolError(err, "")
	}

	reply, err := h.responder.ConfirmBooking(ctx, call.Message, contractx.BookingResult{
		Confirmation: conf.Booking.BookingID,
		Details:      conf.Booking,
	})
	if err != nil {
		// The booking is committed; a confirmation-phrasing failure must
		// not read like a booking failure.
		log.Warn().Err(err).Str("booking_id", conf.Booking.BookingID).Msg("confirmation model failed, using plain confirmation")
		reply = plainConfirmation(conf)
	}
	return contractx.ToolReply{Text: reply, BookingID: conf.Booking.BookingID}, nil
}

// BookingDetails serves the booking lookup endpoint.
func (h *Host) BookingDetails(bookingID string) (hotel.BookingRecord, error) {
	rec, ok := h.ledger.Get(bookingID)
	if !ok {
		return hotel.BookingRecord{}, fmt.Errorf("%w: %s", hotel.ErrBookingNotFound, bookingID)
	}
	return rec, nil
}

// CancelBooking serves the cancellation endpoint.
func (h *Host) CancelBooking(ctx context.Context, bookingID string) (hotel.BookingRecord, error) {
	return h.workflow.Cancel(ctx, bookingID)
}

// HotelDetails bundles a hotel's catalog rows, availability, and recent
// bookings for the hotel lookup endpoint.
type HotelDetails struct {
	Rooms          []hotel.HotelRecord      `json:"rooms"`
	Availability   []hotel.AvailabilitySlot `json:"availability"`
	RecentBookings []hotel.BookingRecord    `json:"recent_bookings"`
}

func (h *Host) HotelDetails(hotelName string) (HotelDetails, error) {
	rooms := h.catalog.ByHotel(hotelName)
	if len(rooms) == 0 {
		return HotelDetails{}, fmt.Errorf("%w: %s", hotel.ErrUnknownHotel, hotelName)
	}
	return HotelDetails{
		Rooms:          rooms,
		Availability:   h.inventory.ForHotel(hotelName),
		RecentBookings: h.ledger.ForHotel(hotelName, 10),
	}, nil
}

func plainConfirmation(conf booking.Confirmation) string {
	rec := conf.Booking
	return fmt.Sprintf(
		"Booking confirmed! Your booking ID is %s: %s room at %s for %s, check-in %s, check-out %s (%d nights, total $%.2f).",
		rec.BookingID, rec.RoomType, rec.HotelName, rec.GuestName, rec.CheckIn, rec.CheckOut, conf.Nights, conf.TotalPrice,
	)
}

func renderSearchResult(result contractx.SearchResult) string {
	if len(result.Items) == 0 {
		return result.Answer
	}

	var b strings.Builder
	b.WriteString(result.Answer)
	for _, item := range result.Items {
		fmt.Fprintf(&b, "\n- %s (%s): %s at $%.2f/night", item.HotelName, item.City, item.RoomType, item.Price)
		if len(item.Amenities) > 0 {
			fmt.Fprintf(&b, " — %s", strings.Join(item.Amenities, ", "))
		}
	}
	return b.String()
}

// renderToolError maps a domain or infrastructure error onto the JSON
// error payload the assistant relays to the user.
func renderToolError(err error, suggestions string) (contractx.ToolReply, error) {
	var noAvail *hotel.NoAvailabilityError
	switch {
	case errors.As(err, &noAvail):
		return renderErrorPayload(
			fmt.Sprintf("No %s rooms available at %s on %s", noAvail.RoomType, noAvail.HotelName, noAvail.Date),
			orDefault(suggestions, "Try different dates or another hotel."), CodeInsufficientAvailability)
	case errors.Is(err, hotel.ErrInvalidDateRange):
		msg := "Check-out date must be after check-in date"
		if strings.Contains(err.Error(), "format") {
			msg = "Invalid date format. Use YYYY-MM-DD"
		}
		return renderErrorPayload(msg, suggestions, CodeInvalidDateRange)
	case errors.Is(err, hotel.ErrUnknownHotel):
		return renderErrorPayload(err.Error(), orDefault(suggestions, "Check the hotel name or search for hotels first."), CodeUnknownHotel)
	case errors.Is(err, hotel.ErrBookingNotFound):
		return renderErrorPayload(err.Error(), suggestions, CodeBookingNotFound)
	case errors.Is(err, hotel.ErrStatusTransition):
		return renderErrorPayload(err.Error(), suggestions, CodeStatusTransition)
	case errors.Is(err, booking.ErrInvalidRequest), errors.Is(err, contractx.ErrValidation):
		return renderErrorPayload(err.Error(), suggestions, CodeInvalidRequest)
	case errors.Is(err, hotel.ErrPersistence):
		return renderErrorPayload("Could not save your booking. Please try again.", suggestions, CodePersistenceFailure)
	case errors.Is(err, contractx.ErrModelTimeout):
		return renderErrorPayload("The request timed out. Please try a simpler query.", suggestions, CodeModelTimeout)
	case errors.Is(err, contractx.ErrModelInvoke), errors.Is(err, contractx.ErrSchemaViolation):
		return renderErrorPayload("Something went wrong while processing your request.", suggestions, CodeModelError)
	}
	return contractx.ToolReply{}, err
}

func renderErrorPayload(message, suggestions, code string) (contractx.ToolReply, error) {
	payload := map[string]string{"error": message}
	if suggestions != "" {
		payload["suggestions"] = suggestions
	}
	if code != "" {
		payload["code"] = code
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return contractx.ToolReply{}, err
	}
	return contractx.ToolReply{Text: string(b)}, nil
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

var _ contractx.Host = (*Host)(nil)
