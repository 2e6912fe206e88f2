package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/api"
	"github.com/hymn-fly/pm-po-newsletter/internal/config"
	"github.com/hymn-fly/pm-po-newsletter/internal/mailie"
	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/logger"
	"github.com/hymn-fly/pm-po-newsletter/internal/repository/cache"
	"github.com/hymn-fly/pm-po-newsletter/internal/repository/postgres"
	"github.com/hymn-fly/pm-po-newsletter/internal/service/clicks"
	"github.com/hymn-fly/pm-po-newsletter/internal/service/subscription"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zl, err := logger.New(logger.Options{Level: cfg.Log.Level, RedactPII: cfg.Log.Redact()})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()
	zl.Info("connected to database")

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.Connect(ctx, cfg.Redis)
		if err != nil {
			// Redis only backs the health probe here; carry on without it.
			zl.Warn("redis unavailable", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	mailieClient := mailie.NewClient(cfg.Mailie, nil)
	defer mailieClient.Close()

	subs := subscription.NewService(postgres.NewSubscriberRepo(db), mailieClient, zl)
	clk := clicks.NewService(postgres.NewPageCountRepo(db))
	handlers := api.NewHandlers(subs, clk, api.NewHealthChecker(db, redisClient), zl)
	server := api.NewServer(cfg.Server, cfg.CORS, handlers)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zl.Info("shutting down")
	case err := <-errCh:
		zl.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
