package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/cache"
	"github.com/tbourn/go-errpage-embed/internal/config"
	httpapi "github.com/tbourn/go-errpage-embed/internal/http"
	"github.com/tbourn/go-errpage-embed/internal/observability"
	"github.com/tbourn/go-errpage-embed/internal/repo"
	"github.com/tbourn/go-errpage-embed/internal/services"
)

// shutdownTimeout bounds graceful shutdown of the server and exporters.
const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	cfg := a.cfg
	ctx = a.logger.WithContext(ctx)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			a.logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if migrate {
		if err := repo.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var kc cache.KeyCache
	if cfg.RedisURL != "" {
		rc, err := cache.Open(ctx, cfg.RedisURL, cfg.KeyCacheTTL)
		if err != nil {
			return err
		}
		defer rc.Close()
		kc = rc
	}

	if cfg.Backfill.Enabled {
		go services.NewGroupBackfiller(db, cfg.Backfill).Start(ctx)
	}

	srv := newHTTPServer(cfg, newEngine(db, kc, cfg))
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().
			Str("addr", srv.Addr).
			Str("embed_path", cfg.EmbedPath).
			Str("db_driver", cfg.DBDriver).
			Bool("key_cache", kc != nil).
			Msg("http server listening")
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

	a.logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return closeDB(db)
}

// newEngine builds the gin engine with every route registered.
func newEngine(db *gorm.DB, kc cache.KeyCache, cfg config.Config) *gin.Engine {
	r := gin.New()
	httpapi.RegisterRoutes(r, db, kc, cfg)
	return r
}

// newHTTPServer applies the configured timeouts and limits.
func newHTTPServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
