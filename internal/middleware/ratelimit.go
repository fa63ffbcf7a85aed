// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"proviewz/internal/identity"
)

// limiterEntry holds the token bucket for a single client.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides per-client rate limiting with a token bucket.
// Authenticated requests are keyed by user ID, anonymous ones by IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	limit   rate.Limit    // refill rate
	burst   int           // max requests per window
	window  time.Duration // idle time after which an entry is dropped
	stopCh  chan struct{}

	// trusted proxies whose forwarding headers are honoured. Set once
	// before serving.
	trusted []netip.Prefix
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
// It starts a background goroutine to clean up idle entries.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	// Periodic cleanup of idle entries every 5 minutes.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// TrustProxies makes the limiter honour X-Forwarded-For and X-Real-IP on
// requests whose peer address falls in one of prefixes. Without trusted
// proxies the peer address is always used. Call before serving.
func (rl *RateLimiter) TrustProxies(prefixes ...netip.Prefix) {
	rl.trusted = prefixes
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// allow checks whether the given key is within the rate limit.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	entry, exists := rl.clients[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// cleanup removes entries with no activity within the window.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns an HTTP middleware that rate-limits by caller, or by
// client IP for anonymous requests. Must run after Authenticate.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.clientKey(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	if c := identity.FromContext(r.Context()); !c.IsAnonymous() {
		return "user:" + c.ID.String()
	}
	return "ip:" + rl.clientIP(r)
}

func (rl *RateLimiter) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the peer address of r. When the peer is a trusted
// proxy, the client named by the forwarding headers is used instead:
// X-Forwarded-For is read right to left and the first untrusted hop wins,
// falling back to X-Real-IP.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !rl.isTrusted(addr) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			a, err := netip.ParseAddr(hop)
			if err != nil || !rl.isTrusted(a) {
				return hop
			}
		}
		// Every hop is one of ours.
		return strings.TrimSpace(hops[0])
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

// remoteHost strips the port from a RemoteAddr.
func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
