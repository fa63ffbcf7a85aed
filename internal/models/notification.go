// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the engagement event behind a notification.
type NotificationType string

const (
	NotificationComment NotificationType = "comment"
	NotificationRating  NotificationType = "rating"
)

// Notification tells a post author that someone else engaged with their
// post. PostID may point at a post that has since been deleted.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	SenderID    uuid.UUID        `json:"sender_id"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	PostID      *uuid.UUID       `json:"post_id,omitempty"`
	CommentID   *uuid.UUID       `json:"comment_id,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// IsSelf reports whether the sender would be notifying themselves.
func (n *Notification) IsSelf() bool {
	return n.RecipientID == n.SenderID
}
