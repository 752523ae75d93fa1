// Package router turns one user message into exactly one tool call. The
// LLM only classifies intent and extracts fields; which tool runs, and
// with what arguments, is decided by a deterministic policy here.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/hotelhive/server/agent/contract"
)

// LLMClassifier wraps the classifier graph behind contract.Classifier.
type LLMClassifier struct {
	runner compose.Runnable[map[string]any, routerLLMOutput]
}

func NewLLMClassifier(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*LLMClassifier, error) {
	runner, err := compileClassifierGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &LLMClassifier{runner: runner}, nil
}

func (c *LLMClassifier) Classify(ctx context.Context, message string, history []contractx.Turn, pending contractx.BookingFields) (contractx.RouteDecision, error) {
	out, err := c.runner.Invoke(ctx, map[string]any{
		"message": message,
		"history": renderHistory(history),
		"pending": renderPending(pending),
	})
	if err != nil {
		return contractx.RouteDecision{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}

	intent := contractx.Intent(strings.ToLower(strings.TrimSpace(out.Intent)))
	switch intent {
	case contractx.IntentGreeting, contractx.IntentSearch, contractx.IntentAvailability,
		contractx.IntentBooking, contractx.IntentFallback:
	default:
		return contractx.RouteDecision{}, fmt.Errorf("%w: unsupported intent %q", contractx.ErrSchemaViolation, out.Intent)
	}

	return contractx.RouteDecision{
		Intent:    intent,
		HotelName: strings.TrimSpace(out.HotelName),
		Booking: contractx.BookingFields{
			HotelName: strings.TrimSpace(out.Booking.HotelName),
			RoomType:  strings.TrimSpace(out.Booking.RoomType),
			CheckIn:   strings.TrimSpace(out.Booking.CheckIn),
			CheckOut:  strings.TrimSpace(out.Booking.CheckOut),
			GuestName: strings.TrimSpace(out.Booking.GuestName),
		},
	}, nil
}

var _ contractx.Classifier = (*LLMClassifier)(nil)

// Router applies the routing policy on top of a Classifier.
type Router struct {
	classifier contractx.Classifier
}

func New(classifier contractx.Classifier) *Router {
	return &Router{classifier: classifier}
}

// Route maps a message onto exactly one tool call and returns the updated
// pending booking fields. Policy, in priority order:
//
//	greeting      -> conversation_assistant
//	search        -> hotel_search
//	availability  -> hotel_availability when a hotel name is known,
//	                 otherwise conversation_assistant asking for it
//	booking       -> create_booking when all five slots are filled,
//	                 otherwise conversation_assistant asking for the rest
//	fallback      -> conversation_assistant
func (r *Router) Route(ctx context.Context, message string, history []contractx.Turn, pending contractx.BookingFields) (contractx.ToolCall, contractx.BookingFields, error) {
	decision, err := r.classifier.Classify(ctx, message, history, pending)
	if err != nil {
		return contractx.ToolCall{}, pending, err
	}

	switch decision.Intent {
	case contractx.IntentGreeting, contractx.IntentFallback:
		return contractx.ToolCall{Tool: contractx.ToolConversationAssistant, Message: message}, pending, nil

	case contractx.IntentSearch:
		return contractx.ToolCall{Tool: contractx.ToolHotelSearch, Message: message}, pending, nil

	case contractx.IntentAvailability:
		hotelName := decision.HotelName
		if hotelName == "" {
			hotelName = decision.Booking.HotelName
		}
		if hotelName == "" {
			hotelName = pending.HotelName
		}
		if hotelName == "" {
			// Original policy: when in doubt about an availability query,
			// ask for the hotel name rather than guess.
			return contractx.ToolCall{
				Tool:    contractx.ToolConversationAssistant,
				Message: message,
				AskFor:  []string{"hotel_name"},
			}, pending, nil
		}
		// Remember the hotel so a later "book it" turn does not have to
		// re-extract the name from history.
		return contractx.ToolCall{
			Tool:      contractx.ToolHotelAvailability,
			Message:   message,
			HotelName: hotelName,
		}, pending.Merge(contractx.BookingFields{HotelName: hotelName}), nil

	case contractx.IntentBooking:
		merged := pending.Merge(decision.Booking)
		if decision.HotelName != "" && merged.HotelName == "" {
			merged.HotelName = decision.HotelName
		}
		if merged.Complete() {
			return contractx.ToolCall{
				Tool:    contractx.ToolCreateBooking,
				Message: message,
				Booking: merged,
			}, merged, nil
		}
		return contractx.ToolCall{
			Tool:    contractx.ToolConversationAssistant,
			Message: message,
			AskFor:  merged.Missing(),
			Known:   merged,
		}, merged, nil
	}

	return contractx.ToolCall{Tool: contractx.ToolConversationAssistant, Message: message}, pending, nil
}

var _ contractx.Router = (*Router)(nil)

func renderHistory(history []contractx.Turn) string {
	if len(history) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, t := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", t.Input, t.Output)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderPending(pending contractx.BookingFields) string {
	if pending == (contractx.BookingFields{}) {
		return "(none)"
	}
	b, err := json.Marshal(pending)
	if err != nil {
		return "(none)"
	}
	return string(b)
}
