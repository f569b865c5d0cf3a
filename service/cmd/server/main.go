// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/hanabi/service/internal/auth"
	"github.com/jason-s-yu/hanabi/service/internal/cache"
	"github.com/jason-s-yu/hanabi/service/internal/config"
	"github.com/jason-s-yu/hanabi/service/internal/database"
	"github.com/jason-s-yu/hanabi/service/internal/game"
	"github.com/jason-s-yu/hanabi/service/internal/server"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed loading configuration.")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration.")
	}
	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped.")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	store, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()
	log.WithField("driver", cfg.DBDriver).Info("Results database ready.")

	var (
		publisher game.Publisher
		snapshots server.SnapshotSource
	)
	if cfg.RedisURL != "" {
		redisPub, err := cache.NewRedisPublisher(ctx, cfg.RedisURL, cfg.SnapshotTTL)
		if err != nil {
			return err
		}
		defer redisPub.Close()
		publisher = redisPub
		snapshots = redisPub
		log.Info("Publishing snapshots to Redis.")
	}

	tokens, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	registry := game.NewRegistry(store, publisher, log)
	srv := server.New(registry, tokens, store, log)
	srv.Snapshots = snapshots
	srv.AllowOrigins = cfg.AllowOrigins

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("Server listening.")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, s := range registry.List() {
		_ = registry.End(s.ID, "server shutdown")
	}
	registry.Wait()
	return httpServer.Shutdown(shutdownCtx)
}
