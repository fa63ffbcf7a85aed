// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"proviewz/internal/apperr"
	"proviewz/internal/authz"
	"proviewz/internal/identity"
	"proviewz/internal/models"
	"proviewz/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	ProfileImage *string
	Occupation   string
	Location     string
}

// UpdateUserInput holds editable profile fields. Nil fields keep their
// current value; a non-nil Password is re-hashed.
type UpdateUserInput struct {
	Email        *string
	Password     *string
	Name         *string
	ProfileImage *string
	Occupation   *string
	Location     *string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService implements account management.
type UserService struct {
	users  UserStore
	tokens TokenIssuer
}

// NewUserService wires a UserService.
func NewUserService(users UserStore, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Validation("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.Validation("email is invalid")
	}
	return email, nil
}

func checkPassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return apperr.Validation("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Register creates an account and signs the new user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	name, err := requireText("name", in.Name)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		Name:         name,
		ProfileImage: in.ProfileImage,
		Occupation:   strings.TrimSpace(in.Occupation),
		Location:     strings.TrimSpace(in.Location),
	}, in.Password)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperr.Conflict("email is already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	if !s.users.CheckPassword(user, password) {
		slog.Warn("failed login attempt", "user_id", user.ID)
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apperr.Unauthenticated("authentication required")
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return apperr.Wrap(apperr.KindAuthentication, err, "invalid token")
	}
	return nil
}

// Get returns a user profile.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// Update edits the caller's own profile.
func (s *UserService) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	if err := authz.RequireOwner(caller, id); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.Name != nil {
		name, err := requireText("name", *in.Name)
		if err != nil {
			return nil, err
		}
		user.Name = name
	}
	if in.ProfileImage != nil {
		user.ProfileImage = in.ProfileImage
	}
	if in.Occupation != nil {
		user.Occupation = strings.TrimSpace(*in.Occupation)
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}
	var password string
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return nil, err
		}
		password = *in.Password
	}

	updated, err := s.users.Update(ctx, user, password)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.NotFound("user not found")
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperr.Conflict("email is already registered")
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// Delete removes the caller's own account. Their posts stay published.
func (s *UserService) Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if err := authz.RequireOwner(caller, id); err != nil {
		return err
	}
	err := s.users.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	slog.Info("user deleted", "user_id", id)
	return nil
}
