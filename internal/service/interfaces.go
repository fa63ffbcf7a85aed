// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service orchestrates post, engagement and account operations:
// authorization, per-post serialization, persistence, cache invalidation
// and notification dispatch. Handlers call into it with an explicit
// caller; nothing here reads request state.
package service

import (
	"context"

	"github.com/google/uuid"

	"proviewz/internal/models"
	"proviewz/internal/store"
)

// PostStore is implemented by store.PostStore and memory.PostStore.
type PostStore interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, f store.PostFilter) ([]models.Post, error)
	Save(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore is implemented by store.UserStore and memory.UserStore.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, u *models.User, password string) (*models.User, error)
	Update(ctx context.Context, u *models.User, password string) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CheckPassword(u *models.User, password string) bool
}

// UserLookup resolves post authors and commenters. Implemented by
// store.UserStore and memory.UserStore.
type UserLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

// PostCache is implemented by cache.PostCache.
type PostCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Post, bool)
	Set(ctx context.Context, p *models.Post)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// Notifier is implemented by notify.Dispatcher.
type Notifier interface {
	Emit(ctx context.Context, n *models.Notification)
}

// TokenIssuer is implemented by session.Store.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, token string) error
}

// noCache is used when no PostCache is configured.
type noCache struct{}

func (noCache) Get(context.Context, uuid.UUID) (*models.Post, bool) { return nil, false }
func (noCache) Set(context.Context, *models.Post)                    {}
func (noCache) Invalidate(context.Context, uuid.UUID)                {}
