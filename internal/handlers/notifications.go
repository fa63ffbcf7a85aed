// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"proviewz/internal/identity"
	"proviewz/internal/notify"
)

// Notifications groups the notification inbox handlers.
type Notifications struct {
	dispatcher *notify.Dispatcher
}

// NewNotifications creates a Notifications handler group.
func NewNotifications(d *notify.Dispatcher) *Notifications {
	return &Notifications{dispatcher: d}
}

// List handles GET /notifications.
func (h *Notifications) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.dispatcher.List(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *Notifications) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.dispatcher.UnreadCount(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// MarkRead handles POST /notifications/{id}/read.
func (h *Notifications) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.dispatcher.MarkRead(r.Context(), id, identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
