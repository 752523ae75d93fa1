package router

import (
	"context"
	"errors"
	"reflect"
	"testing"

	contractx "github.com/hotelhive/server/agent/contract"
)

type fakeClassifier struct {
	decision contractx.RouteDecision
	err      error

	lastMessage string
	lastPending contractx.BookingFields
}

func (f *fakeClassifier) Classify(ctx context.Context, message string, history []contractx.Turn, pending contractx.BookingFields) (contractx.RouteDecision, error) {
	f.lastMessage = message
	f.lastPending = pending
	if f.err != nil {
		return contractx.RouteDecision{}, f.err
	}
	return f.decision, nil
}

func TestRouteGreeting(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{Intent: contractx.IntentGreeting}})

	call, pending, err := r.Route(context.Background(), "hi there", nil, contractx.BookingFields{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolConversationAssistant {
		t.Fatalf("expected conversation_assistant, got %s", call.Tool)
	}
	if call.Message != "hi there" {
		t.Fatalf("unexpected message: %q", call.Message)
	}
	if pending != (contractx.BookingFields{}) {
		t.Fatalf("greeting must not touch pending: %+v", pending)
	}
}

func TestRouteSearch(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{Intent: contractx.IntentSearch}})

	call, _, err := r.Route(context.Background(), "hotels in SF under 150", nil, contractx.BookingFields{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolHotelSearch {
		t.Fatalf("expected hotel_search, got %s", call.Tool)
	}
}

func TestRouteAvailabilityWithHotelName(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{
		Intent:    contractx.IntentAvailability,
		HotelName: "Hotel_1",
	}})

	call, _, err := r.Route(context.Background(), "any rooms at Hotel_1?", nil, contractx.BookingFields{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolHotelAvailability {
		t.Fatalf("expected hotel_availability, got %s", call.Tool)
	}
	if call.HotelName != "Hotel_1" {
		t.Fatalf("unexpected hotel name: %q", call.HotelName)
	}
}

func TestRouteAvailabilityWithoutHotelAsksForIt(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{Intent: contractx.IntentAvailability}})

	call, _, err := r.Route(context.Background(), "any rooms available?", nil, contractx.BookingFields{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolConversationAssistant {
		t.Fatalf("expected conversation_assistant, got %s", call.Tool)
	}
	if !reflect.DeepEqual(call.AskFor, []string{"hotel_name"}) {
		t.Fatalf("expected ask for hotel_name, got %v", call.AskFor)
	}
}

// A resolved availability hotel is remembered, so "book it" on the next
// turn already has the hotel slot filled.
func TestRouteAvailabilitySavesResolvedHotelToPending(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{
		Intent:    contractx.IntentAvailability,
		HotelName: "Hotel_1",
	}})

	_, pending, err := r.Route(context.Background(), "any rooms at Hotel_1?", nil, contractx.BookingFields{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if pending.HotelName != "Hotel_1" {
		t.Fatalf("expected hotel saved to pending, got %+v", pending)
	}

	// The next turn only supplies the remaining slots and still completes.
	r2 := New(&fakeClassifier{decision: contractx.RouteDecision{
		Intent: contractx.IntentBooking,
		Booking: contractx.BookingFields{
			RoomType:  "Single",
			CheckIn:   "2025-09-20",
			CheckOut:  "2025-09-22",
			GuestName: "Ada Lovelace",
		},
	}})
	call, _, err := r2.Route(context.Background(), "book a single there, Sept 20 to 22, Ada Lovelace", nil, pending)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolCreateBooking || call.Booking.HotelName != "Hotel_1" {
		t.Fatalf("expected booking against the remembered hotel, got %+v", call)
	}
}

func TestRouteAvailabilityUsesPendingHotel(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{Intent: contractx.IntentAvailability}})

	call, _, err := r.Route(context.Background(), "is anything free?", nil,
		contractx.BookingFields{HotelName: "Hotel_2"})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolHotelAvailability || call.HotelName != "Hotel_2" {
		t.Fatalf("expected availability for pending hotel, got %+v", call)
	}
}

func TestRouteBookingIncompleteAsksForMissingSlots(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{
		Intent: contractx.IntentBooking,
		Booking: contractx.BookingFields{
			HotelName: "Hotel_1",
			RoomType:  "Single",
		},
	}})

	call, pending, err := r.Route(context.Background(), "book a single at Hotel_1", nil, contractx.BookingFields{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolConversationAssistant {
		t.Fatalf("expected conversation_assistant, got %s", call.Tool)
	}
	if !reflect.DeepEqual(call.AskFor, []string{"check_in", "check_out", "guest_name"}) {
		t.Fatalf("unexpected missing slots: %v", call.AskFor)
	}
	if call.Known.HotelName != "Hotel_1" || call.Known.RoomType != "Single" {
		t.Fatalf("expected known slots carried, got %+v", call.Known)
	}
	if pending.HotelName != "Hotel_1" {
		t.Fatalf("expected pending updated, got %+v", pending)
	}
}

// A follow-up message that only supplies the missing slots must merge with
// what earlier turns collected and complete the booking.
func TestRouteBookingMergesPendingAcrossTurns(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{
		Intent: contractx.IntentBooking,
		Booking: contractx.BookingFields{
			CheckIn:   "2025-09-20",
			CheckOut:  "2025-09-22",
			GuestName: "Ada Lovelace",
		},
	}})

	pendingIn := contractx.BookingFields{HotelName: "Hotel_1", RoomType: "Single"}
	call, pendingOut, err := r.Route(context.Background(),
		"Sept 20 to 22, name is Ada Lovelace", nil, pendingIn)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolCreateBooking {
		t.Fatalf("expected create_booking, got %s", call.Tool)
	}

	want := contractx.BookingFields{
		HotelName: "Hotel_1",
		RoomType:  "Single",
		CheckIn:   "2025-09-20",
		CheckOut:  "2025-09-22",
		GuestName: "Ada Lovelace",
	}
	if call.Booking != want {
		t.Fatalf("Booking = %+v, want %+v", call.Booking, want)
	}
	if pendingOut != want {
		t.Fatalf("pending = %+v, want %+v", pendingOut, want)
	}
}

func TestRouteBookingNewValuesOverridePending(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{
		Intent:  contractx.IntentBooking,
		Booking: contractx.BookingFields{RoomType: "Double"},
	}})

	pendingIn := contractx.BookingFields{
		HotelName: "Hotel_1",
		RoomType:  "Single",
		CheckIn:   "2025-09-20",
		CheckOut:  "2025-09-22",
		GuestName: "Ada Lovelace",
	}
	call, _, err := r.Route(context.Background(), "make it a double instead", nil, pendingIn)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolCreateBooking {
		t.Fatalf("expected create_booking, got %s", call.Tool)
	}
	if call.Booking.RoomType != "Double" {
		t.Fatalf("expected room type override, got %s", call.Booking.RoomType)
	}
}

func TestRouteFallback(t *testing.T) {
	t.Parallel()

	r := New(&fakeClassifier{decision: contractx.RouteDecision{Intent: contractx.IntentFallback}})

	call, _, err := r.Route(context.Background(), "what's the meaning of life", nil, contractx.BookingFields{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if call.Tool != contractx.ToolConversationAssistant {
		t.Fatalf("expected conversation_assistant, got %s", call.Tool)
	}
}

func TestRouteClassifierErrorPropagates(t *testing.T) {
	t.Parallel()

	classifyErr := errors.New("model unreachable")
	r := New(&fakeClassifier{err: classifyErr})

	_, _, err := r.Route(context.Background(), "hi", nil, contractx.BookingFields{})
	if !errors.Is(err, classifyErr) {
		t.Fatalf("expected classifier error, got %v", err)
	}
}

func TestBookingFieldsMissingOrder(t *testing.T) {
	t.Parallel()

	missing := contractx.BookingFields{}.Missing()
	want := []string{"hotel_name", "room_type", "check_in", "check_out", "guest_name"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("Missing() = %v, want %v", missing, want)
	}
}
