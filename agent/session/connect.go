package session

import (
	"context"
	"time"

	logx "github.com/hotelhive/server/pkg/logger"
	redisx "github.com/hotelhive/server/pkg/redis"
)

// Connect builds the session store. A reachable Redis gives durable
// sessions; otherwise the process degrades to in-memory state with a log
// signal instead of refusing to start.
func Connect(ctx context.Context, cfg redisx.Config, ttl time.Duration) Store {
	if cfg.URL == "" {
		logx.Warn().Msg("no redis url configured, using in-memory session store")
		return NewMemoryStore()
	}

	rdb, err := cfg.New(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("redis unreachable, falling back to in-memory session store")
		return NewMemoryStore()
	}

	logx.Info().Msg("session store backed by redis")
	return NewRedisStore(rdb, ttl)
}
