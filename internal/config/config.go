// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"proviewz/internal/engagement"
)

const (
	defaultDBPassword = "changeme"
	defaultJWTSecret  = "dev-insecure-secret"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Bearer tokens
	JWTSecret string
	TokenTTL  time.Duration

	// Engagement
	RatingPolicy       engagement.RatingPolicy
	PostCacheTTL       time.Duration
	RateLimitPerMinute int

	// Reverse proxies whose X-Forwarded-For and X-Real-IP headers the
	// rate limiter honours. Empty means the peer address is always used.
	TrustedProxies []netip.Prefix
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or if a value cannot be parsed.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "proviewz"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "proviewz"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		JWTSecret: envOrDefault("JWT_SECRET", defaultJWTSecret),
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PostCacheTTL, err = durationEnv("POST_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RatingPolicy, err = engagement.ParseRatingPolicy(os.Getenv("RATING_POLICY")); err != nil {
		return nil, fmt.Errorf("RATING_POLICY: %w", err)
	}
	if cfg.RateLimitPerMinute, err = intEnv("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = prefixesEnv("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return n, nil
}

// prefixesEnv parses a comma-separated list of CIDRs. A bare address is
// taken as a single-host prefix.
func prefixesEnv(key string) ([]netip.Prefix, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	var out []netip.Prefix
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			addr, err := netip.ParseAddr(part)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(part)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, p.Masked())
	}
	return out, nil
}
