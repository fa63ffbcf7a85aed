// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"proviewz/internal/apperr"
	"proviewz/internal/authz"
	"proviewz/internal/engagement"
	"proviewz/internal/identity"
	"proviewz/internal/metrics"
	"proviewz/internal/models"
	"proviewz/internal/store"
)

// CreatePostInput holds the fields of a new post.
type CreatePostInput struct {
	Title       string
	Description string
	Image       *string
	Category    string
	Pros        []string
	Cons        []string
	Tags        []string
}

// UpdatePostInput holds the editable fields of a post. Nil fields keep
// their current value.
type UpdatePostInput struct {
	Title       *string
	Description *string
	Image       *string
	Category    *string
	Pros        *[]string
	Cons        *[]string
	Tags        *[]string
}

// ListPostsFilter narrows List. Zero values match everything.
type ListPostsFilter struct {
	AuthorID uuid.UUID
	Category string
}

// PostService implements post CRUD and engagement.
type PostService struct {
	posts    PostStore
	users    UserLookup
	cache    PostCache
	notifier Notifier
	engine   *engagement.Engine
	metrics  *metrics.Metrics
	locks    *keyLock
}

// NewPostService wires a PostService. users, cache and m may be nil;
// without users, posts are returned without author and commenter
// summaries.
func NewPostService(posts PostStore, users UserLookup, cache PostCache, notifier Notifier, engine *engagement.Engine, m *metrics.Metrics) *PostService {
	if cache == nil {
		cache = noCache{}
	}
	return &PostService{
		posts:    posts,
		users:    users,
		cache:    cache,
		notifier: notifier,
		engine:   engine,
		metrics:  m,
		locks:    newKeyLock(),
	}
}

// Categories returns the fixed category list.
func (s *PostService) Categories() []models.CategoryInfo {
	return models.Categories()
}

func requireText(name, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperr.Validation("%s is required", name)
	}
	return v, nil
}

// Create publishes a new post authored by caller.
func (s *PostService) Create(ctx context.Context, caller identity.Caller, in CreatePostInput) (p *models.Post, err error) {
	defer func() { s.metrics.Engagement("create", err) }()

	if err := authz.RequireCaller(caller); err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	desc, err := requireText("description", in.Description)
	if err != nil {
		return nil, err
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	p = &models.Post{
		Title:       title,
		Description: desc,
		Image:       in.Image,
		AuthorID:    caller.ID,
		Category:    category,
		Pros:        in.Pros,
		Cons:        in.Cons,
		Tags:        in.Tags,
	}
	created, err := s.posts.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	slog.Info("post created", "post_id", created.ID, "author_id", caller.ID)
	return s.withPeople(ctx, created), nil
}

// Get returns a post, reading through the post cache. The cache is filled
// under the post's lock so a concurrent mutation cannot be overwritten by
// the snapshot loaded before it.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		s.metrics.CacheLookup(true)
		return s.withPeople(ctx, p), nil
	}
	s.metrics.CacheLookup(false)

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withPeople(ctx, p), nil
}

func (s *PostService) load(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("post not found")
	}
	s.cache.Set(ctx, p)
	return p, nil
}

// List returns posts newest first.
func (s *PostService) List(ctx context.Context, f ListPostsFilter) ([]models.Post, error) {
	filter := store.PostFilter{AuthorID: f.AuthorID}
	if f.Category != "" {
		c, err := models.ParseCategory(f.Category)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		filter.Category = c
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	s.resolvePeople(ctx, posts)
	return posts, nil
}

// withPeople returns a copy of p with author and commenter summaries.
func (s *PostService) withPeople(ctx context.Context, p *models.Post) *models.Post {
	one := []models.Post{*p}
	s.resolvePeople(ctx, one)
	return &one[0]
}

// resolvePeople fills Author and Comment.User on posts with one batched
// lookup. Lookup failures are logged and leave the summaries unset.
// Comment slices are copied before they are written.
func (s *PostService) resolvePeople(ctx context.Context, posts []models.Post) {
	if s.users == nil || len(posts) == 0 {
		return
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for i := range posts {
		add(posts[i].AuthorID)
		for _, c := range posts[i].Comments {
			add(c.UserID)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		slog.Warn("resolve post authors", "error", err)
		return
	}
	summaries := make(map[uuid.UUID]*models.UserSummary, len(users))
	for i := range users {
		sum := users[i].Summary()
		summaries[sum.ID] = &sum
	}

	for i := range posts {
		p := &posts[i]
		p.Author = summaries[p.AuthorID]
		p.Comments = slices.Clone(p.Comments)
		for j := range p.Comments {
			p.Comments[j].User = summaries[p.Comments[j].UserID]
		}
	}
}

// Update edits an owned post. Engagement state is never touched here.
func (s *PostService) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, in UpdatePostInput) (p *models.Post, err error) {
	defer func() { s.metrics.Engagement("update", err) }()

	if err := authz.RequireCaller(caller); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(p *models.Post) (*models.Notification, error) {
		if err := authz.RequireOwner(caller, p.AuthorID); err != nil {
			return nil, err
		}
		return nil, applyUpdate(p, in)
	})
}

func applyUpdate(p *models.Post, in UpdatePostInput) error {
	if in.Title != nil {
		v, err := requireText("title", *in.Title)
		if err != nil {
			return err
		}
		p.Title = v
	}
	if in.Description != nil {
		v, err := requireText("description", *in.Description)
		if err != nil {
			return err
		}
		p.Description = v
	}
	if in.Category != nil {
		c, err := models.ParseCategory(*in.Category)
		if err != nil {
			return apperr.Validation("%s", err.Error())
		}
		p.Category = c
	}
	if in.Image != nil {
		p.Image = in.Image
	}
	if in.Pros != nil {
		p.Pros = *in.Pros
	}
	if in.Cons != nil {
		p.Cons = *in.Cons
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	return nil
}

// Delete removes an owned post. Notifications pointing at it are kept.
func (s *PostService) Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) (err error) {
	defer func() { s.metrics.Engagement("delete", err) }()

	if err := authz.RequireCaller(caller); err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find post: %w", err)
	}
	if p == nil {
		return apperr.NotFound("post not found")
	}
	if err := authz.RequireOwner(caller, p.AuthorID); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("post not found")
		}
		return fmt.Errorf("delete post: %w", err)
	}
	s.cache.Invalidate(context.WithoutCancel(ctx), id)

	slog.Info("post deleted", "post_id", id, "author_id", caller.ID)
	return nil
}

// ToggleLike flips the caller's like. Returns the saved post and whether
// the caller likes it now.
func (s *PostService) ToggleLike(ctx context.Context, caller identity.Caller, id uuid.UUID) (p *models.Post, liked bool, err error) {
	defer func() { s.metrics.Engagement("like", err) }()

	if err := authz.RequireCaller(caller); err != nil {
		return nil, false, err
	}
	p, err = s.mutate(ctx, id, func(p *models.Post) (*models.Notification, error) {
		liked = s.engine.ToggleLike(p, caller.ID)
		return nil, nil
	})
	if err != nil {
		return nil, false, err
	}
	return p, liked, nil
}

// AddComment appends a comment and notifies the author.
func (s *PostService) AddComment(ctx context.Context, caller identity.Caller, id uuid.UUID, text string) (p *models.Post, err error) {
	defer func() { s.metrics.Engagement("comment", err) }()

	if err := authz.RequireCaller(caller); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(p *models.Post) (*models.Notification, error) {
		return s.engine.AddComment(p, caller.ID, text)
	})
}

// Rate records the caller's rating. value must be a whole number in the
// accepted range; fractional values are rejected.
func (s *PostService) Rate(ctx context.Context, caller identity.Caller, id uuid.UUID, value float64) (p *models.Post, err error) {
	defer func() { s.metrics.Engagement("rate", err) }()

	if err := authz.RequireCaller(caller); err != nil {
		return nil, err
	}
	rating, err := engagement.RatingFromNumber(value)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(p *models.Post) (*models.Notification, error) {
		return s.engine.UpsertRating(p, caller.ID, rating)
	})
}

// mutate runs one read-modify-write on a post while holding its lock.
// apply must return an error before changing p if the operation is not
// allowed. The notification, if any, is emitted only after a successful
// save. Post-save side effects run detached from ctx cancellation: once
// the save has committed, a disconnecting client must not leave a stale
// cache entry or lose the notification.
func (s *PostService) mutate(ctx context.Context, id uuid.UUID, apply func(*models.Post) (*models.Notification, error)) (*models.Post, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("post not found")
	}

	note, err := apply(p)
	if err != nil {
		return nil, err
	}

	saved, err := s.posts.Save(ctx, p)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.NotFound("post not found")
	case errors.Is(err, store.ErrConflict):
		return nil, apperr.Wrap(apperr.KindConflict, err, "post was modified concurrently, please retry")
	case err != nil:
		return nil, fmt.Errorf("save post: %w", err)
	}
	committed := context.WithoutCancel(ctx)
	s.cache.Invalidate(committed, id)

	if note != nil {
		s.notifier.Emit(committed, note)
	}
	return s.withPeople(committed, saved), nil
}
