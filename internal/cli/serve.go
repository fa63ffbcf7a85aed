// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"proviewz/internal/cache"
	"proviewz/internal/database"
	"proviewz/internal/engagement"
	"proviewz/internal/handlers"
	"proviewz/internal/metrics"
	"proviewz/internal/middleware"
	"proviewz/internal/notify"
	"proviewz/internal/router"
	"proviewz/internal/service"
	"proviewz/internal/session"
	"proviewz/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 30 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	SkipMigrate bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the ProViewz HTTP API.

The server connects to PostgreSQL and Valkey, applies pending migrations,
seeds demo data in development, and shuts down gracefully on SIGINT or
SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipMigrate, "skip-migrate", false, "do not apply pending migrations on start")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := opts.setup()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	db, err := database.ConnectContext(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if !opts.SkipMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	m := metrics.New()
	tokens := session.NewStore(valkeyClient, cfg.JWTSecret, cfg.TokenTTL)
	postCache := cache.NewPostCache(valkeyClient, cfg.PostCacheTTL)

	engine := engagement.New(cfg.RatingPolicy)
	slog.Info("engagement engine ready", "rating_policy", engine.Policy())

	users := store.NewUserStore(db)
	dispatcher := notify.NewDispatcher(store.NewNotificationStore(db), m)
	postSvc := service.NewPostService(
		store.NewPostStore(db),
		users,
		postCache,
		dispatcher,
		engine,
		m,
	)
	userSvc := service.NewUserService(users, tokens)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		limiter.TrustProxies(cfg.TrustedProxies...)
		defer limiter.Stop()
	}

	r := router.New(tokens, limiter, m,
		handlers.NewAuth(userSvc),
		handlers.NewPosts(postSvc),
		handlers.NewNotifications(dispatcher),
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
