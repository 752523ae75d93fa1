package contract

import (
	"strings"

	"github.com/hotelhive/server/internal/hotel"
)

type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentSearch       Intent = "search"
	IntentAvailability Intent = "availability"
	IntentBooking      Intent = "booking"
	IntentFallback     Intent = "fallback"
)

type AgentRole string

const (
	RoleRouter    AgentRole = "router"
	RoleResponder AgentRole = "responder"
)

// Tool names as the router emits them.
const (
	ToolConversationAssistant = "conversation_assistant"
	ToolHotelSearch           = "hotel_search"
	ToolHotelAvailability     = "hotel_availability"
	ToolCreateBooking         = "create_booking"
)

// BookingFields are the five slots a booking needs. Zero values mean the
// slot has not been captured yet.
type BookingFields struct {
	HotelName string `json:"hotel_name,omitempty"`
	RoomType  string `json:"room_type,omitempty"`
	CheckIn   string `json:"check_in,omitempty"`
	CheckOut  string `json:"check_out,omitempty"`
	GuestName string `json:"guest_name,omitempty"`
}

// Merge overlays the non-empty fields of patch onto f and returns the result.
func (f BookingFields) Merge(patch BookingFields) BookingFields {
	if s := strings.TrimSpace(patch.HotelName); s != "" {
		f.HotelName = s
	}
	if s := strings.TrimSpace(patch.RoomType); s != "" {
		f.RoomType = s
	}
	if s := strings.TrimSpace(patch.CheckIn); s != "" {
		f.CheckIn = s
	}
	if s := strings.TrimSpace(patch.CheckOut); s != "" {
		f.CheckOut = s
	}
	if s := strings.TrimSpace(patch.GuestName); s != "" {
		f.GuestName = s
	}
	return f
}

// Missing lists the slot names still empty, in a stable order.
func (f BookingFields) Missing() []string {
	var missing []string
	if strings.TrimSpace(f.HotelName) == "" {
		missing = append(missing, "hotel_name")
	}
	if strings.TrimSpace(f.RoomType) == "" {
		missing = append(missing, "room_type")
	}
	if strings.TrimSpace(f.CheckIn) == "" {
		missing = append(missing, "check_in")
	}
	if strings.TrimSpace(f.CheckOut) == "" {
		missing = append(missing, "check_out")
	}
	if strings.TrimSpace(f.GuestName) == "" {
		missing = append(missing, "guest_name")
	}
	return missing
}

func (f BookingFields) Complete() bool {
	return len(f.Missing()) == 0
}

// RouteDecision is the classifier's structured output for one user message.
type RouteDecision struct {
	Intent    Intent        `json:"intent"`
	HotelName string        `json:"hotel_name,omitempty"`
	Booking   BookingFields `json:"booking,omitempty"`
}

// ToolCall is the single tool invocation the router chooses for a turn.
type ToolCall struct {
	Tool      string
	Message   string
	HotelName string
	Booking   BookingFields
	History   []Turn
	// AskFor names the booking slots still missing when the router falls
	// back to conversation instead of create_booking.
	AskFor []string
	// Known carries the already-captured slots for the same case, so the
	// assistant can acknowledge them instead of re-asking.
	Known BookingFields
}

// ToolReply is the rendered result of one tool execution. BookingID is
// set only when a booking was committed during the call.
type ToolReply struct {
	Text      string
	BookingID string
}

// Turn is one user/assistant exchange as stored in session history.
type Turn struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type SearchItem struct {
	HotelName string   `json:"hotel_name"`
	City      string   `json:"city"`
	RoomType  string   `json:"room_type"`
	Price     float64  `json:"price"`
	Amenities []string `json:"amenities,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

type SearchResult struct {
	Answer string       `json:"answer"`
	Items  []SearchItem `json:"items,omitempty"`
}

type RoomAvailability struct {
	RoomType string  `json:"room_type"`
	Date     string  `json:"date"`
	Rooms    int     `json:"rooms"`
	Price    float64 `json:"price"`
}

type AvailabilityResult struct {
	HotelName string             `json:"hotel_name"`
	Available bool               `json:"available"`
	Rooms     []RoomAvailability `json:"rooms"`
}

type BookingResult struct {
	Confirmation string              `json:"confirmation"`
	Details      hotel.BookingRecord `json:"details"`
}
