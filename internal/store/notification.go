// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// notification.go stores notifications addressed to post authors. Rows
// are only ever inserted and flipped to read; nothing here deletes them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"proviewz/internal/models"
)

// NotificationStore handles notification persistence.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = `id, recipient_id, sender_id, type, message,
	post_id, comment_id, read, created_at`

func scanNotification(row rowScanner) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(
		&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Message,
		&n.PostID, &n.CommentID, &n.Read, &n.CreatedAt,
	)
	return n, err
}

// Create inserts an unread notification. The created_at column defaults
// to the insert time.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	created, err := scanNotification(s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (recipient_id, sender_id, type, message, post_id, comment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+notificationColumns,
		n.RecipientID, n.SenderID, n.Type, n.Message, n.PostID, n.CommentID,
	))
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return created, nil
}

// FindByID retrieves a notification. Returns nil if not found.
func (s *NotificationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, err := scanNotification(s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find notification by id: %w", err)
	}
	return n, nil
}

// ListByRecipient returns all notifications for a user, newest first.
func (s *NotificationStore) ListByRecipient(ctx context.Context, recipient uuid.UUID) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
	`, recipient)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// CountUnread returns the number of unread notifications for a user.
func (s *NotificationStore) CountUnread(ctx context.Context, recipient uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT read`, recipient,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead sets read = true. Returns ErrNotFound if the row is missing.
func (s *NotificationStore) MarkRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, err := scanNotification(s.db.QueryRowContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1
		RETURNING `+notificationColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}
