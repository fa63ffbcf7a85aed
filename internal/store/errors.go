// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common storage errors.
var (
	// ErrNotFound is returned by writes that target a missing row.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a compare-and-swap save finds that the
	// row changed since it was loaded.
	ErrConflict = errors.New("record was modified concurrently")

	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("record already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
