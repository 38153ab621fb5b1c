package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pet-care-planner/internal/adapters/auth/jwtauth"
	"pet-care-planner/internal/adapters/auth/odin"
	pg "pet-care-planner/internal/adapters/storage/postgres"
	"pet-care-planner/internal/config"
	"pet-care-planner/internal/domain/notifications"
	"pet-care-planner/internal/platform/logger"
	"pet-care-planner/internal/ports/auth"
	"pet-care-planner/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta la API HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer syncLogger(log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	// Sin DB_DSN se usa el store en memoria
	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(ctx, cfg.DBDSN, pg.PoolOptions{})
		if err != nil {
			return err
		}
		defer db.Close()
	} else {
		log.Warn("DB_DSN empty, using in-memory store", nil)
	}

	feed := notifications.NewFeed(0)
	srv := newServer(cfg, router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Logger:       log,
		Location:     loc,
		Feed:         feed,
		AdminEmails:  cfg.Auth.AdminEmails,
	}), feed)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":      srv.Addr,
			"auth_mode": string(cfg.Auth.Mode),
			"timezone":  loc.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer arma el http.Server. Shutdown no cancela los requests en curso,
// así que los streams de notificaciones se cierran desde el feed.
func newServer(cfg *config.Config, h http.Handler, feed *notifications.Feed) *http.Server {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	if feed != nil {
		srv.RegisterOnShutdown(feed.CloseAll)
	}
	return srv
}

func newVerifier(cfg config.AuthConfig) (auth.AuthVerifier, error) {
	switch cfg.Mode {
	case config.AuthJWT:
		return jwtauth.NewVerifier(cfg.JWTKey, cfg.JWTIssuer)
	case config.AuthOdin:
		client, err := odin.NewClient(odin.Config{
			BaseURL: cfg.OdinBaseURL,
			APIKey:  cfg.OdinAPIKey,
			Timeout: cfg.OdinTimeout,
		})
		if err != nil {
			return nil, err
		}
		return odin.NewVerifier(client), nil
	default:
		// sin verifier: modo dev con X-Debug-User-ID
		return nil, nil
	}
}
