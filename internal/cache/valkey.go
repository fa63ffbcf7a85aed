// Package cache provides Valkey (Redis-compatible) client initialization
// and the post read cache.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout  = 5 * time.Second
	readTimeout  = 500 * time.Millisecond
	writeTimeout = 500 * time.Millisecond
)

// ConnectValkey creates a Valkey client and verifies the connection with a
// ping bounded by ctx and a short timeout.
func ConnectValkey(ctx context.Context, host, port, password string) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}
