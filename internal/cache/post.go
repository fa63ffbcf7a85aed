// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post.go provides a Valkey-backed read cache for single posts.
// Posts are stored as JSON under post:<id> and dropped on every write, so
// a reader never sees engagement state older than the last save.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"proviewz/internal/models"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached posts.
	postKeyPrefix = "post:"

	// DefaultPostTTL is how long a post stays cached.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache manages post caching in Valkey. All errors are logged and
// treated as misses.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a new post cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// PostKey returns the cache key for a post ID.
func PostKey(id uuid.UUID) string {
	return postKeyPrefix + id.String()
}

// Get retrieves a cached post. Returns false on miss.
func (pc *PostCache) Get(ctx context.Context, id uuid.UUID) (*models.Post, bool) {
	val, err := pc.client.Get(ctx, PostKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "post_id", id, "error", err)
		return nil, false
	}

	var p models.Post
	if err := json.Unmarshal(val, &p); err != nil {
		slog.Warn("post cache decode error", "post_id", id, "error", err)
		pc.Invalidate(ctx, id)
		return nil, false
	}
	p.Normalize()
	slog.Debug("post cache hit", "post_id", id)
	return &p, true
}

// Set stores a post with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, p *models.Post) {
	b, err := json.Marshal(p)
	if err != nil {
		slog.Warn("post cache encode error", "post_id", p.ID, "error", err)
		return
	}
	if err := pc.client.Set(ctx, PostKey(p.ID), b, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "post_id", p.ID, "error", err)
	}
}

// Invalidate removes a single post from the cache.
func (pc *PostCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := pc.client.Del(ctx, PostKey(id)).Err(); err != nil {
		slog.Warn("post cache invalidate error", "post_id", id, "error", err)
		return
	}
	slog.Debug("post cache invalidated", "post_id", id)
}

// InvalidateAll removes all cached posts by scanning for the prefix.
// Used after schema migrations, since any cached encoding may be stale.
func (pc *PostCache) InvalidateAll(ctx context.Context) int {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("post cache fully cleared", "deleted", deleted)
	}
	return deleted
}
