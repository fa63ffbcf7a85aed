package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const (
	demoEmail    = "demo@proviewz.local"
	demoPassword = "demo"
)

// Seed populates the database with initial development data.
// It creates a demo reviewer and one sample review if no users exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRow(`
		INSERT INTO users (email, password_hash, name, occupation, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, demoEmail, string(hash), "Demo Reviewer", "Tech writer", "Bucharest").Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO posts (title, description, author_id, category, pros, cons, tags)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::jsonb)
	`, "First impressions of a budget phone",
		"Solid battery, average camera, great value for the price.",
		userID, "smartphones",
		`["battery life","price"]`, `["camera in low light"]`, `["budget","android"]`)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo user",
		"email", demoEmail,
		"password", demoPassword,
	)

	return nil
}
