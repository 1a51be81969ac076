// Package migrations manages the database schema. Migrations are embedded in
// code and applied in order, tracked in a schema_migrations table.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	Version string
	SQL     string
}

var all = []migration{
	{
		Version: "001_experiments",
		SQL: `
			CREATE TABLE IF NOT EXISTS experiments (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				hypothesis TEXT NOT NULL DEFAULT '',
				intervention_name TEXT NOT NULL,
				outcome_name TEXT NOT NULL,
				baseline_days INT NOT NULL,
				intervention_days INT NOT NULL,
				minimum_data_points INT NOT NULL DEFAULT 5,
				status TEXT NOT NULL DEFAULT 'draft',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		Version: "002_entries",
		SQL: `
			CREATE TABLE IF NOT EXISTS entries (
				id TEXT PRIMARY KEY,
				experiment_id TEXT NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
				entry_date DATE NOT NULL,
				phase TEXT NOT NULL,
				outcome_value INT,
				intervention_applied BOOLEAN,
				has_confounding_factors BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (experiment_id, entry_date)
			)`,
	},
	{
		Version: "003_experiment_results",
		SQL: `
			CREATE TABLE IF NOT EXISTS experiment_results (
				experiment_id TEXT PRIMARY KEY REFERENCES experiments(id) ON DELETE CASCADE,
				baseline JSONB NOT NULL,
				intervention JSONB NOT NULL,
				effect_size DOUBLE PRECISION NOT NULL,
				percent_change DOUBLE PRECISION NOT NULL,
				direction TEXT NOT NULL,
				confidence_level DOUBLE PRECISION NOT NULL,
				significance TEXT NOT NULL,
				summary_statement TEXT NOT NULL,
				caveats JSONB NOT NULL,
				suggestions JSONB NOT NULL,
				analyzed_at TIMESTAMPTZ NOT NULL
			)`,
	},
}

// Up applies all pending migrations
func Up(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := map[string]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return err
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range all {
		if applied[m.Version] {
			continue
		}
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
	}
	return nil
}
