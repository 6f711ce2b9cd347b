package session

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// HistoryCache keeps rendered transcripts in Redis in front of the registry.
// Keys carry the session's append sequence and the requested message bound, so
// an entry is immutable once written: an append publishes the next transcript
// under a new key instead of racing writers on the old one, and superseded
// entries just age out on the TTL.
type HistoryCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewHistoryCache(client *redisv9.Client, ttl time.Duration) *HistoryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &HistoryCache{client: client, ttl: ttl}
}

func (c *HistoryCache) Get(ctx context.Context, sessionID string, seq uint64, max int) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(sessionID, seq, max)).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get transcript failed: %w", err)
	}
	return raw, true, nil
}

func (c *HistoryCache) Set(ctx context.Context, sessionID string, seq uint64, max int, transcript string) error {
	if err := c.client.Set(ctx, c.key(sessionID, seq, max), transcript, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set transcript failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) key(sessionID string, seq uint64, max int) string {
	return fmt.Sprintf("chat:history:%s:%d:%d", sessionID, seq, max)
}
