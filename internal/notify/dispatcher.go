// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify records notifications for post authors and lets
// recipients read them. Emitting is best-effort: a failed write is logged
// and counted but never reported to the action that caused it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"proviewz/internal/apperr"
	"proviewz/internal/authz"
	"proviewz/internal/identity"
	"proviewz/internal/metrics"
	"proviewz/internal/models"
	"proviewz/internal/store"
)

// Store is the persistence the dispatcher needs. Both store.NotificationStore
// and memory.NotificationStore satisfy it.
type Store interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipient uuid.UUID) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipient uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*models.Notification, error)
}

// Dispatcher emits and serves notifications.
type Dispatcher struct {
	store   Store
	metrics *metrics.Metrics
}

// NewDispatcher creates a Dispatcher. m may be nil.
func NewDispatcher(s Store, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{store: s, metrics: m}
}

// Emit persists n as an unread notification. Self-addressed intents are
// dropped. Errors are logged and swallowed.
func (d *Dispatcher) Emit(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	if n.IsSelf() {
		slog.Warn("dropping self-addressed notification",
			"type", n.Type,
			"user_id", n.SenderID,
		)
		d.metrics.Notification(string(n.Type), "dropped")
		return
	}

	created, err := d.store.Create(ctx, n)
	if err != nil {
		slog.Warn("notification dispatch failed",
			"type", n.Type,
			"recipient_id", n.RecipientID,
			"error", err,
		)
		d.metrics.Notification(string(n.Type), "failed")
		return
	}

	slog.Debug("notification sent",
		"id", created.ID,
		"type", created.Type,
		"recipient_id", created.RecipientID,
	)
	d.metrics.Notification(string(n.Type), "sent")
}

// List returns the caller's notifications, newest first.
func (d *Dispatcher) List(ctx context.Context, caller identity.Caller) ([]models.Notification, error) {
	if err := authz.RequireCaller(caller); err != nil {
		return nil, err
	}
	items, err := d.store.ListByRecipient(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

// UnreadCount returns how many of the caller's notifications are unread.
func (d *Dispatcher) UnreadCount(ctx context.Context, caller identity.Caller) (int, error) {
	if err := authz.RequireCaller(caller); err != nil {
		return 0, err
	}
	n, err := d.store.CountUnread(ctx, caller.ID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the caller's notifications as read. Marking an
// already read notification succeeds and changes nothing.
func (d *Dispatcher) MarkRead(ctx context.Context, id uuid.UUID, caller identity.Caller) (*models.Notification, error) {
	if err := authz.RequireCaller(caller); err != nil {
		return nil, err
	}

	n, err := d.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find notification: %w", err)
	}
	if n == nil {
		return nil, apperr.NotFound("notification not found")
	}
	if err := authz.RequireOwner(caller, n.RecipientID); err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}

	updated, err := d.store.MarkRead(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("notification not found")
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return updated, nil
}
