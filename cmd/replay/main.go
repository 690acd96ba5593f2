package main

import (
	"context"
	"flag"
	"log"

	"github.com/dnazarov/clientstore-api/internal/config"
	"github.com/dnazarov/clientstore-api/internal/database"
	"github.com/dnazarov/clientstore-api/internal/model"
	"github.com/dnazarov/clientstore-api/internal/replay"
	"github.com/dnazarov/clientstore-api/internal/repository"
	citysync "github.com/dnazarov/clientstore-api/internal/sync"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Replays an exported city-event log against the local replica. Used to
// bootstrap a fresh deployment from the vehicle service's event export, or
// to re-apply a window of events after an outage.
func main() {
	var (
		path      = flag.String("file", "events.ndjson", "Path to the NDJSON city event log")
		batchSize = flag.Int("batch", 500, "Events per batch")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Auto-migrate if using memory DB to ensure schema exists
	if cfg.DB.IsMemory() {
		m, err := migrate.New("file://migrations/sqlite", "sqlite3://"+cfg.DB.DSN())
		if err != nil {
			logger.Fatal("Failed to init migration", zap.Error(err))
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			logger.Fatal("Failed to run migration", zap.Error(err))
		}
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)
	handler := citysync.NewHandler(repos.City, logger)

	ctx := context.Background()
	actions := map[string]int{}

	reader := replay.NewReader(*path, *batchSize)
	total, err := reader.Process(func(batch []model.CityEvent) error {
		for _, event := range batch {
			result, err := handler.Apply(ctx, event)
			if err != nil {
				return err
			}
			actions[result.Action]++
		}
		return nil
	})
	if err != nil {
		logger.Fatal("Replay failed", zap.Int("applied", total), zap.Error(err))
	}

	logger.Info("Replay completed",
		zap.Int("events", total),
		zap.Int("created", actions[citysync.ActionCreated]),
		zap.Int("updated", actions[citysync.ActionUpdated]),
		zap.Int("deleted", actions[citysync.ActionDeleted]),
		zap.Int("status_changed", actions[citysync.ActionStatusChanged]),
		zap.Int("skipped", actions[citysync.ActionSkipped]),
		zap.Int("stale", actions[citysync.ActionStale]),
	)
}
