package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/orderserver/migrations"
	"github.com/ghuser/orderserver/pkg/config"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	if !cfg.UsesPostgres() {
		log.Info("storage driver has no schema; nothing to migrate", "driver", cfg.StorageDriver)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db.DB(), log); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations complete")
}
