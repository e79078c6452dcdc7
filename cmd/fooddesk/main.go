package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dkuzmin/fooddesk/internal/config"
	"github.com/dkuzmin/fooddesk/internal/console"
	"github.com/dkuzmin/fooddesk/internal/logx"
	"github.com/dkuzmin/fooddesk/internal/service"
	"github.com/dkuzmin/fooddesk/internal/shutdown"
	"github.com/dkuzmin/fooddesk/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("fooddesk\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout belongs to the console UI)
	log.SetOutput(os.Stderr)

	cfg := config.Load()
	logger := logx.New(os.Stderr, logx.Options{Service: "fooddesk", Level: cfg.LogLevel})

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if len(os.Args) > 1 && os.Args[1] == "--seed" {
		if err := store.SeedDemo(ctx); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		logger.Info("demo data seeded", "db_path", cfg.DBPath)
	}

	svc := service.New(store, logger)
	ui := console.New(svc, cfg.ClientID, os.Stdin, os.Stdout)

	logger.Info("fooddesk starting",
		"version", version,
		"build_mode", storage.BuildMode,
		"driver", storage.DriverName,
		"db_path", cfg.DBPath,
		"client_id", cfg.ClientID)

	if err := ui.Run(ctx); err != nil {
		log.Fatalf("Console error: %v", err)
	}
}
