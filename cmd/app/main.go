package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnazarov/clientstore-api/internal/api"
	"github.com/dnazarov/clientstore-api/internal/config"
	"github.com/dnazarov/clientstore-api/internal/database"
	"github.com/dnazarov/clientstore-api/internal/mapping"
	"github.com/dnazarov/clientstore-api/internal/repository"
	"github.com/dnazarov/clientstore-api/internal/riderclient"
	"github.com/dnazarov/clientstore-api/internal/service"
	"github.com/dnazarov/clientstore-api/internal/stats"
	citysync "github.com/dnazarov/clientstore-api/internal/sync"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := runMigrations(db, cfg); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	riders := riderclient.New(cfg.Rider.BaseURL, cfg.Rider.Timeout)
	syncHandler := citysync.NewHandler(repos.City, logger)
	mappingService := mapping.NewService(repos.Mapping, repos.Client, riders)
	cityService := service.NewService(repos.City)
	statsCollector := stats.NewCollector(db, cfg.DB)

	router := api.NewRouter(api.RouterConfig{
		Cities:         cityService,
		Sync:           syncHandler,
		Mappings:       mappingService,
		Stats:          statsCollector,
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func runMigrations(db *sqlx.DB, cfg *config.Config) error {
	var m *migrate.Migrate
	var err error

	sourcePath := "file://migrations/postgres"

	if cfg.DB.IsMemory() {
		sourcePath = "file://migrations/sqlite"
		// Use driver instance directly to avoid DSN parsing issues with in-memory SQLite
		driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if err != nil {
			return fmt.Errorf("could not create sqlite driver: %w", err)
		}
		m, err = migrate.NewWithDatabaseInstance(
			sourcePath,
			"sqlite3",
			driver,
		)
		if err != nil {
			return fmt.Errorf("could not create migrate instance: %w", err)
		}
	} else {
		m, err = migrate.New(sourcePath, cfg.DB.DSN())
		if err != nil {
			return err
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
