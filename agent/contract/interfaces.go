package contract

import "context"

// Classifier maps one user message, in the context of recent history and
// any pending booking slots, onto a RouteDecision.
type Classifier interface {
	Classify(ctx context.Context, message string, history []Turn, pending BookingFields) (RouteDecision, error)
}

// Responder produces the natural-language replies that need a model.
type Responder interface {
	Converse(ctx context.Context, message string, history []Turn, askFor []string, known BookingFields) (string, error)
	SearchHotels(ctx context.Context, message string, catalogJSON string) (SearchResult, error)
	ConfirmBooking(ctx context.Context, requestText string, result BookingResult) (string, error)
}

// Host executes a routed tool call and renders its reply.
type Host interface {
	Execute(ctx context.Context, sessionID string, call ToolCall) (ToolReply, error)
}

// Router turns one user message into exactly one tool call.
type Router interface {
	Route(ctx context.Context, message string, history []Turn, pending BookingFields) (ToolCall, BookingFields, error)
}
