// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity carries the resolved caller of a request. Resolution
// (token verification) happens at the edge; the core only sees a Caller.
package identity

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

// Caller is either an authenticated user or anonymous (zero value).
type Caller struct {
	ID uuid.UUID
}

// Anonymous is the caller of an unauthenticated request.
var Anonymous = Caller{}

// User returns the caller for an authenticated user ID.
func User(id uuid.UUID) Caller {
	return Caller{ID: id}
}

// IsAnonymous reports whether no user is attached.
func (c Caller) IsAnonymous() bool {
	return c.ID == uuid.Nil
}

// WithCaller returns a context carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the caller stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(contextKey{}).(Caller)
	return c
}

// String returns the user ID, or "anonymous".
func (c Caller) String() string {
	if c.IsAnonymous() {
		return "anonymous"
	}
	return c.ID.String()
}
