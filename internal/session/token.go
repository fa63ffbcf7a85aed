// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session issues and verifies API bearer tokens. Tokens are HS256
// JWTs whose ID (jti) is also recorded in Valkey, so a token stops working
// as soon as it is revoked or its Valkey entry expires.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long an issued token stays valid.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces token keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	issuer = "proviewz"
)

// ErrInvalidToken is returned by Verify for any token that does not
// resolve to a live session.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload carried by every token.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the subject as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Store manages token lifecycle in Valkey.
type Store struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a token store backed by the given Valkey client.
func NewStore(client *redis.Client, secret string, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID and records its jti in Valkey.
func (s *Store) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	now := s.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("session sign: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+claims.ID, userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}
	return signed, nil
}

func (s *Store) parse(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Verify checks the token signature and expiry and that its jti is still
// recorded. Returns the user the token was issued to.
func (s *Store) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	stored, err := s.client.Get(ctx, keyPrefix+claims.ID).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("session get: %w", err)
	}
	if stored != userID.String() {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// Revoke deletes the token's jti so later Verify calls fail. Revoking an
// unknown or already revoked token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, keyPrefix+claims.ID).Err(); err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	return nil
}
