package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"nof1/adapters/postgres"
	"nof1/adapters/postgres/migrations"
	"nof1/app"
	"nof1/internal"
	"nof1/internal/config"
	"nof1/internal/errors"
	"nof1/ui"
)

// initDatabase connects to PostgreSQL and brings the schema up to date
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := migrations.Up(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	logger := internal.NewDefaultLogger()
	experiments := postgres.NewExperimentRepository(db)
	entries := postgres.NewEntryRepository(db)
	service := app.NewAnalysisService(experiments, entries, logger)

	httpApp := ui.NewApp(service, experiments, logger)

	logger.Info("starting server on port %s", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, httpApp.Router()))
}
