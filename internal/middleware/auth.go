// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"proviewz/internal/identity"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// TokenKey is the context key for the raw bearer token.
	TokenKey contextKey = "token"
)

// TokenVerifier resolves a bearer token to a user ID. session.Store
// implements it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate resolves the Authorization bearer token, if any, and
// attaches the caller to the request context. This middleware does NOT
// enforce authentication: a missing or invalid token leaves the request
// anonymous.
func Authenticate(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Verify(r.Context(), token)
			if err != nil {
				slog.Debug("bearer token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := identity.WithCaller(r.Context(), identity.User(userID))
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCaller rejects anonymous requests with 401.
// Must be applied after Authenticate in the middleware chain.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity.FromContext(r.Context()).IsAnonymous() {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromCtx returns the verified bearer token of the request, or "".
func TokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
