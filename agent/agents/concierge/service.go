// Package concierge is the top-level agent: one HandleMessage call takes a
// user message through routing, tool execution, and session bookkeeping.
package concierge

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/hotelhive/server/agent/contract"
	nodex "github.com/hotelhive/server/agent/nodes/concierge"
	sessionx "github.com/hotelhive/server/agent/session"
	logx "github.com/hotelhive/server/pkg/logger"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// TimeoutReply is returned when a turn exceeds its deadline.
const TimeoutReply = "The request timed out. Please try a simpler query."

const defaultTurnTimeout = 30 * time.Second

type Config struct {
	// TurnTimeout bounds one full turn including model calls.
	TurnTimeout time.Duration
}

type Concierge struct {
	sessions sessionx.Store
	router   contractx.Router
	host     contractx.Host

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	turnTimeout time.Duration
}

func New(sessions sessionx.Store, router contractx.Router, host contractx.Host, cfg Config) (*Concierge, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}
	if host == nil {
		return nil, errors.New("tool host is required")
	}

	timeout := cfg.TurnTimeout
	if timeout <= 0 {
		timeout = defaultTurnTimeout
	}

	c := &Concierge{
		sessions:    sessions,
		router:      router,
		host:        host,
		turnTimeout: timeout,
	}

	graphRunner, err := c.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// HandleMessage runs one turn. Validation errors propagate; everything
// else degrades to a user-facing reply so the conversation never breaks.
func (c *Concierge) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	turnCtx, cancel := context.WithTimeout(ctx, c.turnTimeout)
	defer cancel()

	out, err := c.graphRunner.Invoke(turnCtx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidMessage) || errors.Is(err, ErrInvalidSession) {
			return "", err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, contractx.ErrModelTimeout) {
			logx.Warn().Str("session_id", sessionID).Msg("turn timed out")
			return TimeoutReply, nil
		}
		logx.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
		return nodex.FallbackReply, nil
	}
	return out.Reply, nil
}
