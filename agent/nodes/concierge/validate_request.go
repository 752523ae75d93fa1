// Package conciergenode holds the per-step logic of the concierge turn
// graph. Each file is one node.
package conciergenode

import (
	"errors"
	"strings"

	contractx "github.com/hotelhive/server/agent/contract"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	SessionID string
	Text      string

	History []contractx.Turn
	Pending contractx.BookingFields

	Call       contractx.ToolCall
	NewPending contractx.BookingFields
	ToolReply  contractx.ToolReply

	Reply string
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
	}, nil
}
