package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	adapthttp "storefront/internal/adapter/http"
	redisadapter "storefront/internal/adapter/redis"
	"storefront/internal/app"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}
			logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	h, cleanup, err := newHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newHandler opens every configured backend and returns the HTTP handler
// together with a cleanup func releasing them.
func newHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}
	fail := func(err error) (http.Handler, func(), error) {
		cleanup()
		return nil, nil, err
	}

	codec, err := auth.NewCodec([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, nil, err
	}

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	var denylist domain.TokenDenylist
	if cfg.RedisURL != "" {
		d, err := redisadapter.Open(ctx, cfg.RedisURL)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, d.Close)
		denylist = d
		logger.Info("token revocation enabled")
	}

	blobs, uploadDir, err := openBlobStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	var sso *adapthttp.SSO
	if cfg.OIDC.Enabled() {
		sso, err = adapthttp.NewSSO(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			return fail(err)
		}
		logger.Info("sso enabled", "issuer", cfg.OIDC.Issuer)
	}

	authSvc := app.NewAuthService(st, app.BcryptHasher{}, codec, logger)
	if denylist != nil {
		authSvc.WithDenylist(denylist)
	}
	if cfg.DatabaseURL == "" {
		if err := seedAdmin(ctx, authSvc, cfg, logger); err != nil {
			return fail(err)
		}
	}

	h := adapthttp.New(adapthttp.Deps{
		Gate:      auth.NewGate(codec, auth.CookieManager{Secure: cfg.IsProduction()}, denylist, logger),
		Auth:      authSvc,
		Catalog:   app.NewCatalogService(st, st),
		Settings:  app.NewSettingsService(st),
		Uploads:   app.NewUploadService(blobs),
		SSO:       sso,
		UploadDir: uploadDir,
		Logger:    logger,
	}).Handler()
	return h, cleanup, nil
}

// seedAdmin provisions the in-memory store with one admin from ADMIN_EMAIL
// and ADMIN_PASSWORD. Without a password the store stays empty.
func seedAdmin(ctx context.Context, svc *app.AuthService, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, in-memory store has no admin account")
		return nil
	}
	u, err := svc.CreateAdmin(ctx, "Admin", cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("seeded in-memory admin", "email", u.Email)
	return nil
}
