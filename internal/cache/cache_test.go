// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"proviewz/internal/models"
)

// testClient returns a client backed by an in-process miniredis server.
func testClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := ConnectValkey(context.Background(), mr.Host(), mr.Port(), "")
	if err != nil {
		t.Fatalf("ConnectValkey: %v", err)
	}
	client.Close()
}

func TestConnectValkeyWrongPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	_, err := ConnectValkey(context.Background(), mr.Host(), mr.Port(), "wrong")
	if err == nil {
		t.Fatal("expected an error for a bad password")
	}
}

func samplePost() *models.Post {
	fan := uuid.New()
	return &models.Post{
		ID:       uuid.New(),
		Title:    "Cached",
		AuthorID: uuid.New(),
		Category: "audio",
		Likes:    []uuid.UUID{fan},
		Ratings:  map[uuid.UUID]int{fan: 5},
		Version:  3,
	}
}

func TestPostCacheSetAndGet(t *testing.T) {
	client, _ := testClient(t)
	pc := NewPostCache(client, time.Minute)
	ctx := context.Background()

	p := samplePost()
	if _, ok := pc.Get(ctx, p.ID); ok {
		t.Fatal("expected miss before Set")
	}

	pc.Set(ctx, p)
	got, ok := pc.Get(ctx, p.ID)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.Title != p.Title || got.Version != 3 {
		t.Errorf("got %+v", got)
	}
	if !got.LikedBy(p.Likes[0]) {
		t.Error("likes lost in round trip")
	}
	if got.Comments == nil {
		t.Error("expected normalized comments")
	}
}

func TestPostCacheTTL(t *testing.T) {
	client, mr := testClient(t)
	pc := NewPostCache(client, 30*time.Second)
	ctx := context.Background()

	p := samplePost()
	pc.Set(ctx, p)
	if ttl := mr.TTL(PostKey(p.ID)); ttl != 30*time.Second {
		t.Errorf("ttl: got %v, want 30s", ttl)
	}

	mr.FastForward(31 * time.Second)
	if _, ok := pc.Get(ctx, p.ID); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestPostCacheDefaultTTL(t *testing.T) {
	client, _ := testClient(t)
	if pc := NewPostCache(client, 0); pc.ttl != DefaultPostTTL {
		t.Errorf("ttl: got %v, want %v", pc.ttl, DefaultPostTTL)
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	client, _ := testClient(t)
	pc := NewPostCache(client, time.Minute)
	ctx := context.Background()

	p := samplePost()
	pc.Set(ctx, p)
	pc.Invalidate(ctx, p.ID)
	if _, ok := pc.Get(ctx, p.ID); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestPostCacheCorruptEntry(t *testing.T) {
	client, mr := testClient(t)
	pc := NewPostCache(client, time.Minute)
	ctx := context.Background()

	id := uuid.New()
	mr.Set(PostKey(id), "{not json")
	if _, ok := pc.Get(ctx, id); ok {
		t.Fatal("expected miss for corrupt entry")
	}
	if mr.Exists(PostKey(id)) {
		t.Error("corrupt entry should be removed")
	}
}

func TestPostCacheInvalidateAll(t *testing.T) {
	client, mr := testClient(t)
	pc := NewPostCache(client, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		pc.Set(ctx, samplePost())
	}
	mr.Set("other:key", "keep")

	if n := pc.InvalidateAll(ctx); n != 3 {
		t.Errorf("deleted: got %d, want 3", n)
	}
	if !mr.Exists("other:key") {
		t.Error("unrelated key was deleted")
	}
}

func TestPostCacheUnavailable(t *testing.T) {
	client, mr := testClient(t)
	pc := NewPostCache(client, time.Minute)
	ctx := context.Background()

	mr.Close()
	p := samplePost()
	pc.Set(ctx, p)
	if _, ok := pc.Get(ctx, p.ID); ok {
		t.Error("expected miss when Valkey is down")
	}
}
