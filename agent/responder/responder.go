// Package responder produces the natural-language replies: small talk and
// clarification, grounded hotel search answers, and booking confirmations.
package responder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/hotelhive/server/agent/contract"
	promptx "github.com/hotelhive/server/agent/prompt"
	openrouterx "github.com/hotelhive/server/pkg/openrouter"
)

type Responder struct {
	client  *openaisdk.Client
	model   string
	temp    float64
	prompts promptx.PromptSet
}

func New(cfg openrouterx.Config, prompts promptx.PromptSet) (*Responder, error) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return nil, fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	return &Responder{
		client:  client,
		model:   cfg.Model,
		temp:    float64(cfg.Temperature),
		prompts: prompts,
	}, nil
}

func (r *Responder) Converse(ctx context.Context, message string, history []contractx.Turn, askFor []string, known contractx.BookingFields) (string, error) {
	system := promptx.Render(r.prompts.Conversation, map[string]string{
		"history":         renderHistory(history),
		"available_tools": capabilityNotes,
		"slot_notes":      renderSlotNotes(askFor, known),
		"message":         message,
	})
	return r.complete(ctx, system, message)
}

func (r *Responder) SearchHotels(ctx context.Context, message string, catalogJSON string) (contractx.SearchResult, error) {
	system := promptx.Render(r.prompts.Search, map[string]string{
		"data":     catalogJSON,
		"question": message,
	})

	raw, err := r.complete(ctx, system, message)
	if err != nil {
		return contractx.SearchResult{}, err
	}

	var result contractx.SearchResult
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &result); err != nil || strings.TrimSpace(result.Answer) == "" {
		// A malformed payload still usually reads fine as prose.
		return contractx.SearchResult{Answer: raw}, nil
	}
	return result, nil
}

func (r *Responder) ConfirmBooking(ctx context.Context, requestText string, result contractx.BookingResult) (string, error) {
	details, err := json.MarshalIndent(result.Details, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: marshal booking details: %v", contractx.ErrValidation, err)
	}

	system := promptx.Render(r.prompts.Confirm, map[string]string{
		"details": string(details),
		"request": requestText,
	})
	return r.complete(ctx, system, requestText)
}

func (r *Responder) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(r.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(system),
			openaisdk.UserMessage(user),
		},
		Temperature: openaisdk.Float(r.temp),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", contractx.ErrModelTimeout, err)
		}
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", contractx.ErrModelInvoke)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ contractx.Responder = (*Responder)(nil)

// capabilityNotes tells the conversational model what the assistant as a
// whole can do, so clarifying questions point somewhere useful.
const capabilityNotes = `- Search hotels by city, state, room type, price, and amenities.
- Check room availability for a specific hotel by name.
- Book a room: needs hotel name, room type, check-in, check-out (YYYY-MM-DD), and guest name.`

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

func renderSlotNotes(askFor []string, known contractx.BookingFields) string {
	if len(askFor) == 0 {
		return ""
	}

	var knownParts []string
	if known.HotelName != "" {
		knownParts = append(knownParts, "hotel: "+known.HotelName)
	}
	if known.RoomType != "" {
		knownParts = append(knownParts, "room type: "+known.RoomType)
	}
	if known.CheckIn != "" {
		knownParts = append(knownParts, "check-in: "+known.CheckIn)
	}
	if known.CheckOut != "" {
		knownParts = append(knownParts, "check-out: "+known.CheckOut)
	}
	if known.GuestName != "" {
		knownParts = append(knownParts, "guest: "+known.GuestName)
	}

	var b strings.Builder
	b.WriteString("Details still needed from the guest: " + strings.Join(askFor, ", ") + ".")
	if len(knownParts) > 0 {
		b.WriteString("\nDetails already provided: " + strings.Join(knownParts, "; ") + ".")
	}
	return b.String()
}

func stripJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
