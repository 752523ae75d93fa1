package conciergenode

import (
	"context"
	"fmt"

	contractx "github.com/hotelhive/server/agent/contract"
	sessionx "github.com/hotelhive/server/agent/session"
	logx "github.com/hotelhive/server/pkg/logger"
)

// AppendHistory records the finished exchange and carries the booking
// slots forward. A committed booking clears the pending slots so the next
// booking starts clean. Store failures here degrade the next turn's
// context but must not fail a turn that already produced a reply.
func AppendHistory(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := store.Append(ctx, in.SessionID, sessionx.Turn{Input: in.Text, Output: in.Reply}); err != nil {
		logx.Warn().Err(err).Str("session_id", in.SessionID).Msg("failed to append turn to session store")
	}

	switch {
	case in.ToolReply.BookingID != "":
		if err := store.ClearPending(ctx, in.SessionID); err != nil {
			logx.Warn().Err(err).Str("session_id", in.SessionID).Msg("failed to clear pending booking")
		}
	case in.NewPending != in.Pending:
		if err := store.SavePending(ctx, in.SessionID, toPendingBooking(in.NewPending)); err != nil {
			logx.Warn().Err(err).Str("session_id", in.SessionID).Msg("failed to save pending booking")
		}
	}

	return in, nil
}
