// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"proviewz/internal/apperr"
	"proviewz/internal/identity"
	"proviewz/internal/models"
	"proviewz/internal/service"
)

type createPostRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Description string   `json:"description" validate:"required,max=20000"`
	Image       *string  `json:"image" validate:"omitempty,max=2048"`
	Category    string   `json:"category" validate:"required"`
	Pros        []string `json:"pros" validate:"max=20,dive,max=300"`
	Cons        []string `json:"cons" validate:"max=20,dive,max=300"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=300"`
}

type updatePostRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=300"`
	Description *string   `json:"description" validate:"omitempty,max=20000"`
	Image       *string   `json:"image" validate:"omitempty,max=2048"`
	Category    *string   `json:"category"`
	Pros        *[]string `json:"pros" validate:"omitempty,max=20"`
	Cons        *[]string `json:"cons" validate:"omitempty,max=20"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// rateRequest takes the rating as a JSON number so that fractional
// values reach the service and are rejected there.
type rateRequest struct {
	Rating *float64 `json:"rating" validate:"required"`
}

type likeResponse struct {
	Liked bool         `json:"liked"`
	Post  *models.Post `json:"post"`
}

// Posts groups the post and engagement handlers.
type Posts struct {
	posts *service.PostService
}

// NewPosts creates a Posts handler group.
func NewPosts(posts *service.PostService) *Posts {
	return &Posts{posts: posts}
}

// List handles GET /posts with optional ?author= and ?category= filters.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	var f service.ListPostsFilter
	if raw := r.URL.Query().Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, apperr.Validation("author must be a UUID"))
			return
		}
		f.AuthorID = id
	}
	f.Category = r.URL.Query().Get("category")

	posts, err := h.posts.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Categories handles GET /posts/categories.
func (h *Posts) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.posts.Categories())
}

// Create handles POST /posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.posts.Create(r.Context(), identity.FromContext(r.Context()), service.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Pros:        req.Pros,
		Cons:        req.Cons,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Get handles GET /posts/{id}.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.posts.Update(r.Context(), identity.FromContext(r.Context()), id, service.UpdatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Pros:        req.Pros,
		Cons:        req.Cons,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.posts.Delete(r.Context(), identity.FromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /posts/{id}/like.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, liked, err := h.posts.ToggleLike(r.Context(), identity.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: liked, Post: p})
}

// Comment handles POST /posts/{id}/comment.
func (h *Posts) Comment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.posts.AddComment(r.Context(), identity.FromContext(r.Context()), id, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Rate handles POST /posts/{id}/rate.
func (h *Posts) Rate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.posts.Rate(r.Context(), identity.FromContext(r.Context()), id, *req.Rating)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
