// Command import loads the launch CSV named by DATA_FILE into the launches
// table of the configured Postgres database, replacing its contents.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"spacex-dashboard/internal/config"
	"spacex-dashboard/internal/database"
	"spacex-dashboard/internal/launches"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.DataSource != config.SourcePostgres {
		log.Fatalf("DATA_SOURCE must be %q to import launches", config.SourcePostgres)
	}

	table, err := launches.LoadFile(cfg.DataFile)
	if err != nil {
		log.Fatalf("Error reading launches: %v", err)
	}

	if err := database.Migrate(cfg.DB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	db, err := database.New(cfg.DB)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.ReplaceLaunches(ctx, table.Records()); err != nil {
		db.Close()
		log.Fatalf("Error importing launches: %v", err)
	}
	log.Printf("Imported %d launches from %s", table.Len(), cfg.DataFile)
}
