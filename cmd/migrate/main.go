// Command migrate applies the SQL files in migrations/ that have not been
// applied yet.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hymn-fly/pm-po-newsletter/internal/config"
	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/logger"
	"github.com/hymn-fly/pm-po-newsletter/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	dir := flag.String("dir", "migrations", "directory holding *.sql migrations")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	zl, err := logger.New(logger.Options{Level: cfg.Log.Level, RedactPII: cfg.Log.Redact()})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	err = run(cfg.Database, *dir, zl)
	if err != nil {
		zl.Error("migration failed", zap.Error(err))
	}
	_ = zl.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(dbCfg config.DatabaseConfig, dir string, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := postgres.Migrate(ctx, db, dir, zl)
	if err != nil {
		return err
	}
	zl.Info("migrations complete",
		zap.Int("applied", len(res.Applied)), zap.Int("skipped", len(res.Skipped)))
	return nil
}
