// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered reviewer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	Occupation   string    `json:"occupation"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the public part of a user shown next to their posts and
// comments.
type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profile_image,omitempty"`
}

// Summary returns the public summary of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, ProfileImage: u.ProfileImage}
}
