// Command import loads daily entries from a spreadsheet into an experiment.
// Useful when an experiment was tracked by hand before being set up here.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"nof1/adapters/excel"
	"nof1/adapters/postgres"
	"nof1/adapters/postgres/migrations"
	"nof1/domain/core"
	"nof1/internal/config"
)

func main() {
	var (
		file         = flag.String("file", "", "path to the .xlsx or .csv file (defaults to IMPORT_FILE)")
		experimentID = flag.String("experiment", "", "target experiment ID")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *file == "" {
		*file = cfg.Import.File
	}
	if *file == "" {
		log.Fatal("no input file: pass -file or set IMPORT_FILE")
	}
	if *experimentID == "" {
		log.Fatal("missing -experiment flag")
	}

	id, err := core.ParseExperimentID(*experimentID)
	if err != nil {
		log.Fatalf("Invalid experiment ID: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migrations.Up(ctx, db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	experiments := postgres.NewExperimentRepository(db)
	if _, err := experiments.GetByID(ctx, id); err != nil {
		log.Fatalf("Failed to load experiment %s: %v", id, err)
	}

	reader := excel.NewEntryReader(*file)
	entries, err := reader.ReadEntries(id)
	if err != nil {
		log.Fatalf("Failed to read entries: %v", err)
	}

	repo := postgres.NewEntryRepository(db)
	for i := range entries {
		if err := repo.Upsert(ctx, &entries[i]); err != nil {
			log.Fatalf("Failed to store entry for %s: %v", entries[i].Date, err)
		}
	}
	log.Printf("Imported %d entries into experiment %s", len(entries), id)
}
