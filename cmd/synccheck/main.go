package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dnazarov/clientstore-api/internal/config"
	"github.com/dnazarov/clientstore-api/internal/database"
	"github.com/dnazarov/clientstore-api/internal/stats"
	"go.uber.org/zap"
)

func main() {
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

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	logger.Info("Collecting replica status...", zap.String("db_type", string(cfg.DB.Type)))

	collector := stats.NewCollector(db, cfg.DB)

	statistics, err := collector.Collect(context.Background())
	if err != nil {
		logger.Fatal("Failed to collect replica status", zap.Error(err))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "json"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(statistics); err != nil {
			logger.Fatal("Failed to encode replica status", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(statistics)
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

func printHumanReadable(s *stats.Stats) {
	fmt.Println("=== Replica Status ===")
	fmt.Printf("Timestamp: %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("--- Replica ---")
	fmt.Printf("Cities:              %d\n", s.Replica.Cities)
	fmt.Printf("Operational cities:  %d\n", s.Replica.OperationalCities)
	fmt.Printf("Max event sequence:  %d\n", s.Replica.MaxEventSequence)
	if s.Replica.LastSyncAt != nil {
		fmt.Printf("Last sync:           %s\n", s.Replica.LastSyncAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last sync:           never")
	}
	fmt.Println()

	fmt.Println("--- Database ---")
	fmt.Printf("Type:            %s\n", s.Database.Type)
	fmt.Printf("Total Records:   %d\n", s.Database.TotalRecords)
	for _, ts := range s.Database.TableStats {
		fmt.Printf("  %-25s: %10d rows\n", ts.Name, ts.RowCount)
	}
	fmt.Println()

	fmt.Println("--- Runtime ---")
	fmt.Printf("Goroutines:      %d\n", s.Runtime.NumGoroutines)
	fmt.Printf("Uptime:          %ds\n", s.Runtime.UptimeSeconds)
}
