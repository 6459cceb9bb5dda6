package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"drawpoker/internal/config"
	"drawpoker/internal/httpapi"
	"drawpoker/internal/offline"
	"drawpoker/internal/service"
	"drawpoker/internal/store"
	"drawpoker/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Authoritative store: postgres when configured, in-memory for dev.
	var authoritative store.SnapshotStore = store.NewMemory()
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			logger.Fatal("open postgres", zap.Error(err))
		}
		gs, err := store.NewGorm(db)
		if err != nil {
			logger.Fatal("init store", zap.Error(err))
		}
		authoritative = gs
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	ctx := context.Background()
	hub := watch.NewHub(ctx)

	svc := service.New(authoritative, logger)
	svc.AttachHub(hub)

	// Local store: enables the offline surface and snapshot mirroring.
	var rec *offline.Reconciler
	if cfg.LocalDBPath != "" {
		db, err := gorm.Open(sqlite.Open(cfg.LocalDBPath), &gorm.Config{})
		if err != nil {
			logger.Fatal("open local db", zap.Error(err))
		}
		local, err := store.NewGorm(db)
		if err != nil {
			logger.Fatal("init local store", zap.Error(err))
		}
		svc.AttachMirror(local)
		rec = offline.NewReconciler(local, local, svc, logger)
	}

	handler := httpapi.SetupRoutes(svc, rec, hub, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
