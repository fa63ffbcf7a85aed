// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authz decides whether a caller may mutate a resource. The checks
// are pure and run before any state is loaded for writing.
package authz

import (
	"github.com/google/uuid"

	"proviewz/internal/apperr"
	"proviewz/internal/identity"
)

// CanMutate reports whether caller owns the resource owned by ownerID.
func CanMutate(caller identity.Caller, ownerID uuid.UUID) bool {
	return !caller.IsAnonymous() && caller.ID == ownerID
}

// RequireCaller fails with an authentication error for anonymous callers.
// Likes, comments and ratings need nothing more.
func RequireCaller(caller identity.Caller) error {
	if caller.IsAnonymous() {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

// RequireOwner gates owner-only operations: editing or deleting a post or
// a profile, and marking a notification read.
func RequireOwner(caller identity.Caller, ownerID uuid.UUID) error {
	if err := RequireCaller(caller); err != nil {
		return err
	}
	if !CanMutate(caller, ownerID) {
		return apperr.Forbidden("forbidden")
	}
	return nil
}
