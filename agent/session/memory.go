package session

import (
	"context"
	"sync"
)

// MemoryStore is the process-local fallback used when Redis is not
// reachable. State is lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	turns   map[string][]Turn
	pending map[string]PendingBooking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		turns:   make(map[string][]Turn),
		pending: make(map[string]PendingBooking),
	}
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns[sessionID]
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func (s *MemoryStore) Pending(ctx context.Context, sessionID string) (PendingBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[sessionID], nil
}

func (s *MemoryStore) SavePending(ctx context.Context, sessionID string, pending PendingBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[sessionID] = pending
	return nil
}

func (s *MemoryStore) ClearPending(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, sessionID)
	return nil
}

var _ Store = (*MemoryStore)(nil)
