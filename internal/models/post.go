// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Post is a published review. Engagement state (likes, comments, ratings)
// lives on the post itself and is persisted together with it.
type Post struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	AuthorID    uuid.UUID `json:"author_id"`
	Category    Category  `json:"category"`
	Pros        []string  `json:"pros"`
	Cons        []string  `json:"cons"`
	Tags        []string  `json:"tags"`

	// Author is resolved for display and never persisted.
	Author *UserSummary `json:"author,omitempty"`

	// Likes is a set of user IDs. Insertion order is kept for display only.
	Likes    []uuid.UUID       `json:"likes"`
	Comments []Comment         `json:"comments"`
	Ratings  map[uuid.UUID]int `json:"ratings"`

	// Derived from Ratings on every ratings mutation.
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`

	// Version is bumped by the store on every save and used for
	// compare-and-swap updates.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a single entry in a post's append-only comment thread.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	// User is resolved for display and never persisted.
	User *UserSummary `json:"user,omitempty"`
}

// IsAuthor reports whether userID owns the post.
func (p *Post) IsAuthor(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// LikedBy reports whether userID is in the like set.
func (p *Post) LikedBy(userID uuid.UUID) bool {
	return slices.Contains(p.Likes, userID)
}

// RatingBy returns the rating userID gave the post, if any.
func (p *Post) RatingBy(userID uuid.UUID) (int, bool) {
	r, ok := p.Ratings[userID]
	return r, ok
}

// Clone returns a deep copy so that callers holding the copy can never
// mutate a stored post by accident.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	if p.Image != nil {
		img := *p.Image
		c.Image = &img
	}
	c.Pros = slices.Clone(p.Pros)
	c.Cons = slices.Clone(p.Cons)
	c.Tags = slices.Clone(p.Tags)
	c.Likes = slices.Clone(p.Likes)
	c.Comments = slices.Clone(p.Comments)
	if p.Ratings != nil {
		c.Ratings = make(map[uuid.UUID]int, len(p.Ratings))
		for k, v := range p.Ratings {
			c.Ratings[k] = v
		}
	}
	return &c
}

// Normalize replaces nil collections with empty ones so the JSON
// representation always carries arrays and objects instead of null.
func (p *Post) Normalize() {
	if p.Pros == nil {
		p.Pros = []string{}
	}
	if p.Cons == nil {
		p.Cons = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Likes == nil {
		p.Likes = []uuid.UUID{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	if p.Ratings == nil {
		p.Ratings = map[uuid.UUID]int{}
	}
}
