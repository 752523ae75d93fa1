package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	logx "github.com/hotelhive/server/pkg/logger"
)

// RedisStore keeps each conversation as a Redis list of JSON turns plus a
// string key for the pending booking slots.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) turnsKey(sessionID string) string {
	return fmt.Sprintf("conversation:%s:turns", sessionID)
}

func (s *RedisStore) pendingKey(sessionID string) string {
	return fmt.Sprintf("conversation:%s:pending", sessionID)
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	key := s.turnsKey(sessionID)

	rows, err := s.rdb.LRange(ctx, key, int64(-historyWindow), -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load turn history from redis")
		return nil, fmt.Errorf("load history: %w", err)
	}

	turns := make([]Turn, 0, len(rows))
	for i, row := range rows {
		var t Turn
		if err := json.Unmarshal([]byte(row), &t); err != nil {
			logx.Error().Err(err).Str("sessionID", sessionID).Int("index", i).Msg("failed to unmarshal turn")
			return nil, fmt.Errorf("unmarshal turn at index %d: %w", i, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := s.turnsKey(sessionID)

	if err := s.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push turn to redis")
		return fmt.Errorf("append turn: %w", err)
	}
	// extend TTL on touch
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			logx.Warn().Err(err).Str("key", key).Msg("failed to set TTL on conversation key")
		}
	}
	return nil
}

func (s *RedisStore) Pending(ctx context.Context, sessionID string) (PendingBooking, error) {
	key := s.pendingKey(sessionID)

	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return PendingBooking{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load pending booking from redis")
		return PendingBooking{}, fmt.Errorf("load pending booking: %w", err)
	}

	var p PendingBooking
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return PendingBooking{}, fmt.Errorf("unmarshal pending booking: %w", err)
	}
	return p, nil
}

func (s *RedisStore) SavePending(ctx context.Context, sessionID string, pending PendingBooking) error {
	b, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending booking: %w", err)
	}
	key := s.pendingKey(sessionID)

	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save pending booking to redis")
		return fmt.Errorf("save pending booking: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearPending(ctx context.Context, sessionID string) error {
	key := s.pendingKey(sessionID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to clear pending booking in redis")
		return fmt.Errorf("clear pending booking: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
