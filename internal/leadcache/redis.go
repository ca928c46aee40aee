package leadcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	redis "github.com/redis/go-redis/v9"
)

// Redis is an optional cache backend for deployments running more than one
// replica. It follows the same best-effort policy as the rest of the flow:
// a Redis failure degrades to "no entry" and never reaches the caller.
type Redis struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedis constructs a Redis-backed cache using the provided client.
func NewRedis(client *redis.Client, log *slog.Logger) *Redis {
	if log == nil {
		log = slog.Default()
	}

	return &Redis{client: client, log: log}
}

// Get fetches the cached entry for userID if it exists.
func (r *Redis) Get(ctx context.Context, userID int64) (Entry, bool) {
	if r == nil || r.client == nil {
		return Entry{}, false
	}

	data, err := r.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("lead cache read failed", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		r.log.Warn("lead cache entry corrupted", slog.Int64("user_id", userID), slog.Any("error", err))
		return Entry{}, false
	}

	return entry, true
}

// Put merges patch into the stored entry. Entries have no TTL: the cache
// mirrors the lead's mutable fields for the lifetime of the funnel.
func (r *Redis) Put(ctx context.Context, userID int64, patch Patch) {
	if r == nil || r.client == nil {
		return
	}

	entry, _ := r.Get(ctx, userID)
	entry = merge(entry, patch)

	payload, err := json.Marshal(entry)
	if err != nil {
		r.log.Warn("lead cache encode failed", slog.Int64("user_id", userID), slog.Any("error", err))
		return
	}

	if err := r.client.Set(ctx, cacheKey(userID), payload, 0).Err(); err != nil {
		r.log.Warn("lead cache write failed", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("lead:%d", userID)
}
