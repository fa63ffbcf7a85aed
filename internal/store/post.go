// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"proviewz/internal/models"
)

// PostFilter narrows a post listing. Zero values match everything.
type PostFilter struct {
	AuthorID uuid.UUID
	Category models.Category
}

// PostStore persists posts as one row each, with the engagement
// collections held in JSONB columns so a post loads and saves as a unit.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, description, image, author_id, category,
	pros, cons, tags, likes, comments, ratings,
	average_rating, rating_count, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	var pros, cons, tags, likes, comments, ratings []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Image, &p.AuthorID, &p.Category,
		&pros, &cons, &tags, &likes, &comments, &ratings,
		&p.AverageRating, &p.RatingCount, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	docs := []struct {
		raw  []byte
		dest any
	}{
		{pros, &p.Pros}, {cons, &p.Cons}, {tags, &p.Tags},
		{likes, &p.Likes}, {comments, &p.Comments}, {ratings, &p.Ratings},
	}
	for _, d := range docs {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dest); err != nil {
			return nil, fmt.Errorf("decode post document: %w", err)
		}
	}
	p.Normalize()
	return p, nil
}

// postDocs encodes the JSONB columns of p in column order.
func postDocs(p *models.Post) ([]string, error) {
	p.Normalize()
	comments := make([]models.Comment, len(p.Comments))
	for i, c := range p.Comments {
		c.User = nil
		comments[i] = c
	}
	values := []any{p.Pros, p.Cons, p.Tags, p.Likes, comments, p.Ratings}
	out := make([]string, len(values))
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode post document: %w", err)
		}
		out[i] = string(b)
	}
	return out, nil
}

// Create inserts a new post and returns it with the generated ID and
// version 1.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	docs, err := postDocs(p)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, description, image, author_id, category,
		                   pros, cons, tags, likes, comments, ratings,
		                   average_rating, rating_count)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8::jsonb, $9::jsonb,
		        $10::jsonb, $11::jsonb, $12, $13)
		RETURNING `+postColumns,
		p.Title, p.Description, p.Image, p.AuthorID, p.Category,
		docs[0], docs[1], docs[2], docs[3], docs[4], docs[5],
		p.AverageRating, p.RatingCount,
	)
	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// List returns posts matching f, newest first.
func (s *PostStore) List(ctx context.Context, f PostFilter) ([]models.Post, error) {
	var (
		where []string
		args  []any
	)
	if f.AuthorID != uuid.Nil {
		args = append(args, f.AuthorID)
		where = append(where, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Save writes every mutable field of p if the stored version still equals
// p.Version, and returns the post with its new version. The author is
// never rewritten. Returns ErrNotFound if the post is gone and ErrConflict
// if another writer saved first.
func (s *PostStore) Save(ctx context.Context, p *models.Post) (*models.Post, error) {
	docs, err := postDocs(p)
	if err != nil {
		return nil, err
	}

	saved, err := scanPost(s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, description = $2, image = $3, category = $4,
			pros = $5::jsonb, cons = $6::jsonb, tags = $7::jsonb,
			likes = $8::jsonb, comments = $9::jsonb, ratings = $10::jsonb,
			average_rating = $11, rating_count = $12,
			version = version + 1, updated_at = NOW()
		WHERE id = $13 AND version = $14
		RETURNING `+postColumns,
		p.Title, p.Description, p.Image, p.Category,
		docs[0], docs[1], docs[2], docs[3], docs[4], docs[5],
		p.AverageRating, p.RatingCount, p.ID, p.Version,
	))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, p.ID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("save post: %w", err)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return saved, nil
}

// Delete removes a post by ID. Returns ErrNotFound if nothing was deleted.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
