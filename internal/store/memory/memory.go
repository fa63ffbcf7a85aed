// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory provides in-process implementations of the post,
// notification and user stores. They follow the PostgreSQL stores'
// contracts (nil on missing finds, version compare-and-swap on save) and
// hand out deep copies so callers never share state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"proviewz/internal/models"
	"proviewz/internal/store"
)

// PostStore is an in-memory post store.
type PostStore struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*models.Post
	now   func() time.Time
}

// NewPostStore creates an empty PostStore.
func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[uuid.UUID]*models.Post), now: time.Now}
}

// Create stores a copy of p with a fresh ID and version 1.
func (s *PostStore) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	c := p.Clone()
	c.Normalize()
	c.ID = uuid.New()
	c.Version = 1
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt

	s.mu.Lock()
	s.posts[c.ID] = c
	s.mu.Unlock()
	return c.Clone(), nil
}

// FindByID returns a copy of the post, or nil if not found.
func (s *PostStore) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts[id].Clone(), nil
}

// List returns posts matching f, newest first.
func (s *PostStore) List(_ context.Context, f store.PostFilter) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, p := range s.posts {
		if f.AuthorID != uuid.Nil && p.AuthorID != f.AuthorID {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, *p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Save replaces the stored post if its version matches p.Version.
func (s *PostStore) Save(_ context.Context, p *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.posts[p.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if cur.Version != p.Version {
		return nil, store.ErrConflict
	}

	c := p.Clone()
	c.Normalize()
	c.AuthorID = cur.AuthorID
	c.CreatedAt = cur.CreatedAt
	c.Version = cur.Version + 1
	c.UpdatedAt = s.now()
	s.posts[c.ID] = c
	return c.Clone(), nil
}

// Delete removes a post.
func (s *PostStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// NotificationStore is an in-memory notification store.
type NotificationStore struct {
	mu    sync.RWMutex
	items []*models.Notification
	now   func() time.Time
}

// NewNotificationStore creates an empty NotificationStore.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{now: time.Now}
}

// Create stores an unread copy of n.
func (s *NotificationStore) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	c := *n
	c.ID = uuid.New()
	c.Read = false
	c.CreatedAt = s.now()

	s.mu.Lock()
	s.items = append(s.items, &c)
	s.mu.Unlock()
	out := c
	return &out, nil
}

// FindByID returns a copy of the notification, or nil if not found.
func (s *NotificationStore) FindByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.items {
		if n.ID == id {
			c := *n
			return &c, nil
		}
	}
	return nil, nil
}

// ListByRecipient returns the recipient's notifications, newest first.
// Notifications created at the same instant keep reverse insertion order.
func (s *NotificationStore) ListByRecipient(_ context.Context, recipient uuid.UUID) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].RecipientID == recipient {
			out = append(out, *s.items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CountUnread returns the number of unread notifications for recipient.
func (s *NotificationStore) CountUnread(_ context.Context, recipient uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.items {
		if n.RecipientID == recipient && !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead sets read = true on the notification.
func (s *NotificationStore) MarkRead(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			n.Read = true
			c := *n
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// UserStore is an in-memory user store.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
	cost  int
	now   func() time.Time
}

// NewUserStore creates an empty UserStore. Passwords are hashed at
// bcrypt.MinCost.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*models.User), cost: bcrypt.MinCost, now: time.Now}
}

func (s *UserStore) emailTaken(email string, except uuid.UUID) bool {
	for _, u := range s.users {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// FindByEmail returns the user with the given email, or nil.
func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// FindByID returns the user, or nil.
func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// FindByIDs returns the known users among ids, in the order given.
func (s *UserStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

// Create stores a new user with a bcrypt hash of password.
func (s *UserStore) Create(_ context.Context, u *models.User, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(u.Email, uuid.Nil) {
		return nil, store.ErrDuplicate
	}
	c := *u
	c.ID = uuid.New()
	c.PasswordHash = string(hash)
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.users[c.ID] = &c
	out := c
	return &out, nil
}

// Update replaces the profile fields, re-hashing when password is set.
func (s *UserStore) Update(_ context.Context, u *models.User, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[u.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return nil, store.ErrDuplicate
	}
	c := *u
	c.PasswordHash = cur.PasswordHash
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return nil, err
		}
		c.PasswordHash = string(hash)
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = s.now()
	s.users[c.ID] = &c
	out := c
	return &out, nil
}

// Delete removes a user.
func (s *UserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// CheckPassword verifies a plaintext password against the user's hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return store.CheckPassword(user, password)
}
