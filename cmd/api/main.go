package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeremyjsx/blogapi/internal/auth"
	"github.com/jeremyjsx/blogapi/internal/categories"
	"github.com/jeremyjsx/blogapi/internal/config"
	"github.com/jeremyjsx/blogapi/internal/database"
	"github.com/jeremyjsx/blogapi/internal/events"
	"github.com/jeremyjsx/blogapi/internal/handlers"
	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/jeremyjsx/blogapi/internal/posts"
	"github.com/jeremyjsx/blogapi/internal/storage"
	"github.com/jeremyjsx/blogapi/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(os.Stdout, cfg.Server.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	health := &handlers.HealthDeps{DB: db}

	var mirror *posts.Mirror
	if cfg.S3.Bucket != "" {
		client, err := storage.NewS3Client(ctx, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			return err
		}
		store := storage.NewS3Storage(client, cfg.S3.Bucket)
		mirror = posts.NewMirror(store)
		health.Storage = store
		log.Info("markdown mirror enabled", "bucket", cfg.S3.Bucket)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rmq, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer func() {
			if err := rmq.Close(); err != nil {
				log.Warn("closing rabbitmq publisher failed", "error", err)
			}
		}()
		publisher = rmq
		health.Broker = rmq
		log.Info("event publishing enabled", "exchange", events.ExchangeName)
	}

	categoryRepo := categories.NewSQLRepository(db)
	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:     log,
		Posts:      posts.NewService(posts.NewSQLRepository(db), categoryRepo, publisher, mirror),
		Users:      users.NewService(users.NewSQLRepository(db), tokens),
		Categories: categoryRepo,
		Health:     health,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
