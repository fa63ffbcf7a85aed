// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engagement applies likes, comments and ratings to an in-memory
// post. It never touches storage: callers load the post, apply one
// operation and persist the result. Comment and rating operations return
// the notification the post author should receive, or nil for self-actions.
package engagement

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"proviewz/internal/apperr"
	"proviewz/internal/models"
)

const (
	// MaxCommentLength is the longest accepted comment, in runes.
	MaxCommentLength = 5_000

	MinRating = 1
	MaxRating = 5
)

// RatingPolicy decides what happens when a user rates a post twice.
type RatingPolicy int

const (
	// RatingOverwrite replaces the previous rating.
	RatingOverwrite RatingPolicy = iota
	// RatingReject refuses a second rating with a conflict error.
	RatingReject
)

func (p RatingPolicy) String() string {
	if p == RatingReject {
		return "reject"
	}
	return "overwrite"
}

// ParseRatingPolicy parses "overwrite" (or empty) and "reject".
func ParseRatingPolicy(s string) (RatingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return RatingOverwrite, nil
	case "reject":
		return RatingReject, nil
	default:
		return RatingOverwrite, fmt.Errorf("unknown rating policy %q", s)
	}
}

// Engine holds the engagement rules.
type Engine struct {
	policy RatingPolicy
	now    func() time.Time
}

// New creates an Engine with the given repeat-rating policy.
func New(policy RatingPolicy) *Engine {
	return &Engine{policy: policy, now: time.Now}
}

// Policy returns the configured repeat-rating policy.
func (e *Engine) Policy() RatingPolicy {
	return e.policy
}

// ToggleLike adds caller to the like set, or removes them if present.
// Returns whether the caller likes the post afterwards. Likes never notify.
func (e *Engine) ToggleLike(p *models.Post, caller uuid.UUID) bool {
	for i, id := range p.Likes {
		if id == caller {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, caller)
	return true
}

// AddComment appends a trimmed comment. Empty or oversized comments are
// rejected before the post is touched.
func (e *Engine) AddComment(p *models.Post, caller uuid.UUID, text string) (*models.Notification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, apperr.Validation("comment is too long (max %d characters)", MaxCommentLength)
	}

	c := models.Comment{
		ID:        uuid.New(),
		UserID:    caller,
		Text:      text,
		CreatedAt: e.now(),
	}
	p.Comments = append(p.Comments, c)

	if p.IsAuthor(caller) {
		return nil, nil
	}
	return e.notice(p, caller, models.NotificationComment,
		fmt.Sprintf("commented on your post %q", p.Title), &c.ID), nil
}

// UpsertRating records caller's rating and recomputes the aggregates.
func (e *Engine) UpsertRating(p *models.Post, caller uuid.UUID, rating int) (*models.Notification, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, apperr.Validation("rating must be an integer between %d and %d", MinRating, MaxRating)
	}
	if _, exists := p.RatingBy(caller); exists && e.policy == RatingReject {
		return nil, apperr.Conflict("you have already rated this post")
	}

	if p.Ratings == nil {
		p.Ratings = make(map[uuid.UUID]int)
	}
	p.Ratings[caller] = rating
	Recompute(p)

	if p.IsAuthor(caller) {
		return nil, nil
	}
	return e.notice(p, caller, models.NotificationRating,
		fmt.Sprintf("rated your post %q %d/%d", p.Title, rating, MaxRating), nil), nil
}

func (e *Engine) notice(p *models.Post, sender uuid.UUID, typ models.NotificationType, msg string, commentID *uuid.UUID) *models.Notification {
	postID := p.ID
	return &models.Notification{
		RecipientID: p.AuthorID,
		SenderID:    sender,
		Type:        typ,
		Message:     msg,
		PostID:      &postID,
		CommentID:   commentID,
	}
}

// Recompute sets AverageRating and RatingCount from Ratings.
func Recompute(p *models.Post) {
	p.AverageRating, p.RatingCount = Aggregate(p.Ratings)
}

// Aggregate returns the mean rating rounded to one decimal and the number
// of ratings. An empty map yields 0, 0.
func Aggregate(ratings map[uuid.UUID]int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10, len(ratings)
}

// RatingFromNumber converts a decoded JSON number into a rating, rejecting
// fractional values such as 3.5.
func RatingFromNumber(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, apperr.Validation("rating must be an integer between %d and %d", MinRating, MaxRating)
	}
	if v < MinRating || v > MaxRating {
		return 0, apperr.Validation("rating must be an integer between %d and %d", MinRating, MaxRating)
	}
	return int(v), nil
}
