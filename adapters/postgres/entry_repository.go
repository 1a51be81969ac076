package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/ports"
)

// EntryRepositoryImpl implements EntryRepository for PostgreSQL
type EntryRepositoryImpl struct {
	db *sqlx.DB
}

// NewEntryRepository creates a new PostgreSQL entry repository
func NewEntryRepository(db *sqlx.DB) ports.EntryRepository {
	return &EntryRepositoryImpl{db: db}
}

// Upsert stores an entry, replacing any existing entry for the same experiment and date.
// Entries are editable until the experiment completes; the service layer enforces that.
func (r *EntryRepositoryImpl) Upsert(ctx context.Context, entry *experiment.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (
			id, experiment_id, entry_date, phase, outcome_value,
			intervention_applied, has_confounding_factors, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (experiment_id, entry_date) DO UPDATE SET
			phase = EXCLUDED.phase,
			outcome_value = EXCLUDED.outcome_value,
			intervention_applied = EXCLUDED.intervention_applied,
			has_confounding_factors = EXCLUDED.has_confounding_factors`,
		entry.ID.String(), entry.ExperimentID.String(), entry.Date.String(), string(entry.Phase),
		entry.OutcomeValue, entry.InterventionApplied, entry.HasConfoundingFactors,
		entry.CreatedAt.Time())
	return err
}

// ListByExperiment returns all entries for an experiment ordered by date
func (r *EntryRepositoryImpl) ListByExperiment(ctx context.Context, id core.ExperimentID) ([]experiment.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, experiment_id, entry_date, phase, outcome_value,
		       intervention_applied, has_confounding_factors, created_at
		FROM entries WHERE experiment_id = $1 ORDER BY entry_date ASC`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []experiment.Entry
	for rows.Next() {
		var e experiment.Entry
		var entryID, expID, phase string
		var entryDate, createdAt time.Time

		err := rows.Scan(&entryID, &expID, &entryDate, &phase, &e.OutcomeValue,
			&e.InterventionApplied, &e.HasConfoundingFactors, &createdAt)
		if err != nil {
			return nil, err
		}

		e.ID = core.EntryID(entryID)
		e.ExperimentID = core.ExperimentID(expID)
		e.Date = core.NewDay(entryDate)
		e.Phase = experiment.Phase(phase)
		e.CreatedAt = core.NewTimestamp(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
