package conciergenode

import (
	"context"
	"fmt"

	contractx "github.com/hotelhive/server/agent/contract"
	sessionx "github.com/hotelhive/server/agent/session"
)

func LoadHistory(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	turns, err := store.History(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrSessionStore, err)
	}
	pending, err := store.Pending(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrSessionStore, err)
	}

	in.History = toContractTurns(turns)
	in.Pending = toBookingFields(pending)
	return in, nil
}

func toContractTurns(turns []sessionx.Turn) []contractx.Turn {
	if len(turns) == 0 {
		return nil
	}
	out := make([]contractx.Turn, len(turns))
	for i, t := range turns {
		out[i] = contractx.Turn{Input: t.Input, Output: t.Output}
	}
	return out
}

func toBookingFields(p sessionx.PendingBooking) contractx.BookingFields {
	return contractx.BookingFields{
		HotelName: p.HotelName,
		RoomType:  p.RoomType,
		CheckIn:   p.CheckIn,
		CheckOut:  p.CheckOut,
		GuestName: p.GuestName,
	}
}

func toPendingBooking(f contractx.BookingFields) sessionx.PendingBooking {
	return sessionx.PendingBooking{
		HotelName: f.HotelName,
		RoomType:  f.RoomType,
		CheckIn:   f.CheckIn,
		CheckOut:  f.CheckOut,
		GuestName: f.GuestName,
	}
}
