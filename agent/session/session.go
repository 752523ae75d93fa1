// Package session keeps per-conversation state: the turn history the
// router and responder condition on, and the pending booking slots
// accumulated across turns.
package session

import "context"

const (
	// historyWindow bounds how many recent turns a prompt sees.
	historyWindow = 10
)

type Store interface {
	// History returns up to historyWindow recent turns, oldest first.
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turn Turn) error
	Pending(ctx context.Context, sessionID string) (PendingBooking, error)
	SavePending(ctx context.Context, sessionID string, pending PendingBooking) error
	ClearPending(ctx context.Context, sessionID string) error
}

type Turn struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// PendingBooking mirrors contract.BookingFields as stored JSON. Kept as a
// local type so the store has no dependency on the agent contract.
type PendingBooking struct {
	HotelName string `json:"hotel_name,omitempty"`
	RoomType  string `json:"room_type,omitempty"`
	CheckIn   string `json:"check_in,omitempty"`
	CheckOut  string `json:"check_out,omitempty"`
	GuestName string `json:"guest_name,omitempty"`
}

func (p PendingBooking) Empty() bool {
	return p == PendingBooking{}
}
