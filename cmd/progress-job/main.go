// Command progress-job advances every subscriber through the drip course.
// By default it makes one pass and exits, for use from cron. With
// -interval it keeps running on a ticker until interrupted.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/config"
	"github.com/hymn-fly/pm-po-newsletter/internal/mailie"
	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/logger"
	"github.com/hymn-fly/pm-po-newsletter/internal/repository/cache"
	"github.com/hymn-fly/pm-po-newsletter/internal/repository/postgres"
	"github.com/hymn-fly/pm-po-newsletter/internal/service/progress"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	interval := flag.Duration("interval", 0, "run repeatedly at this interval instead of once")
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

	err = run(cfg, zl, *interval)
	if err != nil {
		zl.Error("progress job failed", zap.Error(err))
	}
	_ = zl.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, zl *zap.Logger, interval time.Duration) error {
	loc, err := cfg.Course.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	mappings, closeMappings := triggerMappings(ctx, cfg, db, zl)
	defer closeMappings()

	client := mailie.NewClient(cfg.Mailie, mappings)
	defer client.Close()

	job := progress.NewJob(postgres.NewSubscriberRepo(db), client, zl, loc)

	if interval > 0 {
		progress.NewScheduler(job, zl, interval).Run(ctx)
		return nil
	}

	_, err = job.Run(ctx)
	return err
}

// triggerMappings returns the Postgres mapping table, behind the Redis
// cache when one is configured and reachable.
func triggerMappings(ctx context.Context, cfg *config.Config, db *sql.DB, zl *zap.Logger) (mailie.Mappings, func()) {
	repo := postgres.NewTriggerMappingRepo(db)
	if !cfg.Redis.Enabled() {
		return repo, func() {}
	}

	rdb, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		zl.Warn("redis unavailable, trigger mappings uncached", zap.Error(err))
		return repo, func() {}
	}
	return cache.NewTriggerMappings(rdb, repo, cfg.Redis.TTL(), zl), func() { rdb.Close() }
}
