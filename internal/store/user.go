// Package store provides database access methods for all ProViewz
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"proviewz/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, name, profile_image, occupation, location, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.ProfileImage,
		&u.Occupation, &u.Location, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByIDs retrieves every user in ids in one query. Unknown IDs are
// skipped, so the result may be shorter than ids.
func (s *UserStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, keys)
	if err != nil {
		return nil, fmt.Errorf("find users by id: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find users by id: %w", err)
	}
	return users, nil
}

// Create inserts a new user with a bcrypt-hashed password. Returns
// ErrDuplicate if the email is taken.
func (s *UserStore) Create(ctx context.Context, u *models.User, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, name, profile_image, occupation, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		u.Email, string(hash), u.Name, u.ProfileImage, u.Occupation, u.Location,
	))
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Update writes the profile fields of u. When password is non-empty the
// stored hash is replaced as well.
func (s *UserStore) Update(ctx context.Context, u *models.User, password string) (*models.User, error) {
	hash := u.PasswordHash
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(b)
	}

	updated, err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users SET
			email = $1, password_hash = $2, name = $3, profile_image = $4,
			occupation = $5, location = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+userColumns,
		u.Email, hash, u.Name, u.ProfileImage, u.Occupation, u.Location, u.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// Delete removes a user by ID. Their posts are left in place.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return CheckPassword(user, password)
}

// CheckPassword compares password with the bcrypt hash on user.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
