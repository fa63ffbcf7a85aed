// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"proviewz/internal/apperr"
	"proviewz/internal/identity"
	"proviewz/internal/middleware"
	"proviewz/internal/service"
)

type registerRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Name         string  `json:"name" validate:"required,max=100"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=2048"`
	Occupation   string  `json:"occupation" validate:"max=100"`
	Location     string  `json:"location" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Email        *string `json:"email" validate:"omitempty,email"`
	Password     *string `json:"password" validate:"omitempty,min=6"`
	Name         *string `json:"name" validate:"omitempty,max=100"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=2048"`
	Occupation   *string `json:"occupation" validate:"omitempty,max=100"`
	Location     *string `json:"location" validate:"omitempty,max=100"`
}

// Auth handles registration, login, logout and profile management.
type Auth struct {
	users *service.UserService
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *service.UserService) *Auth {
	return &Auth{users: users}
}

// Register handles POST /auth/register.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := a.users.Register(r.Context(), service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
		Occupation:   req.Occupation,
		Location:     req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Login handles POST /auth/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Logout handles POST /auth/logout by revoking the request's token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.users.Logout(r.Context(), middleware.TokenFromCtx(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	caller := identity.FromContext(r.Context())
	if caller.IsAnonymous() {
		writeError(w, r, apperr.Unauthenticated("authentication required"))
		return
	}
	u, err := a.users.Get(r.Context(), caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetUser handles GET /users/{id}.
func (a *Auth) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /users/{id}.
func (a *Auth) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := a.users.Update(r.Context(), identity.FromContext(r.Context()), id, service.UpdateUserInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
		Occupation:   req.Occupation,
		Location:     req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{id}.
func (a *Auth) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.users.Delete(r.Context(), identity.FromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
