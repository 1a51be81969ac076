package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/domain/results"
	"nof1/ports"
)

// ExperimentRepositoryImpl implements ExperimentRepository for PostgreSQL
type ExperimentRepositoryImpl struct {
	db *sqlx.DB
}

// NewExperimentRepository creates a new PostgreSQL experiment repository
func NewExperimentRepository(db *sqlx.DB) ports.ExperimentRepository {
	return &ExperimentRepositoryImpl{db: db}
}

// Create stores a new experiment
func (r *ExperimentRepositoryImpl) Create(ctx context.Context, exp *experiment.Experiment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO experiments (
			id, title, hypothesis, intervention_name, outcome_name,
			baseline_days, intervention_days, minimum_data_points, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		exp.ID.String(), exp.Title, exp.Hypothesis, exp.InterventionName, exp.OutcomeName,
		exp.BaselineDays, exp.InterventionDays, exp.MinimumDataPoints, string(exp.Status),
		exp.CreatedAt.Time())
	return err
}

// GetByID retrieves an experiment by its ID
func (r *ExperimentRepositoryImpl) GetByID(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error) {
	return r.scanExperiment(r.db.QueryRowContext(ctx, `
		SELECT id, title, hypothesis, intervention_name, outcome_name,
		       baseline_days, intervention_days, minimum_data_points, status, created_at
		FROM experiments WHERE id = $1`, id.String()))
}

// List returns experiments ordered by creation time, newest first
func (r *ExperimentRepositoryImpl) List(ctx context.Context, limit int) ([]*experiment.Experiment, error) {
	query := `
		SELECT id, title, hypothesis, intervention_name, outcome_name,
		       baseline_days, intervention_days, minimum_data_points, status, created_at
		FROM experiments ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var experiments []*experiment.Experiment
	for rows.Next() {
		exp, err := r.scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, exp)
	}
	return experiments, rows.Err()
}

// UpdateStatus persists a lifecycle transition
func (r *ExperimentRepositoryImpl) UpdateStatus(ctx context.Context, id core.ExperimentID, status experiment.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE experiments SET status = $1 WHERE id = $2`, string(status), id.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AttachResults stores analysis results, replacing any prior analysis
func (r *ExperimentRepositoryImpl) AttachResults(ctx context.Context, res *results.ExperimentResults) error {
	baselineJSON, _ := json.Marshal(res.Baseline)
	interventionJSON, _ := json.Marshal(res.Intervention)
	caveatsJSON, _ := json.Marshal(res.Caveats)
	suggestionsJSON, _ := json.Marshal(res.Suggestions)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO experiment_results (
			experiment_id, baseline, intervention, effect_size, percent_change,
			direction, confidence_level, significance, summary_statement,
			caveats, suggestions, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (experiment_id) DO UPDATE SET
			baseline = EXCLUDED.baseline,
			intervention = EXCLUDED.intervention,
			effect_size = EXCLUDED.effect_size,
			percent_change = EXCLUDED.percent_change,
			direction = EXCLUDED.direction,
			confidence_level = EXCLUDED.confidence_level,
			significance = EXCLUDED.significance,
			summary_statement = EXCLUDED.summary_statement,
			caveats = EXCLUDED.caveats,
			suggestions = EXCLUDED.suggestions,
			analyzed_at = EXCLUDED.analyzed_at`,
		res.ExperimentID.String(), baselineJSON, interventionJSON, res.EffectSize, res.PercentChange,
		string(res.Direction), res.ConfidenceLevel, string(res.Significance), res.SummaryStatement,
		caveatsJSON, suggestionsJSON, res.AnalyzedAt.Time())
	return err
}

// GetResults retrieves the attached results, if the experiment has been analyzed
func (r *ExperimentRepositoryImpl) GetResults(ctx context.Context, id core.ExperimentID) (*results.ExperimentResults, error) {
	var res results.ExperimentResults
	var expID string
	var baselineJSON, interventionJSON, caveatsJSON, suggestionsJSON []byte
	var direction, significance string
	var analyzedAt time.Time

	err := r.db.QueryRowContext(ctx, `
		SELECT experiment_id, baseline, intervention, effect_size, percent_change,
		       direction, confidence_level, significance, summary_statement,
		       caveats, suggestions, analyzed_at
		FROM experiment_results WHERE experiment_id = $1`, id.String()).Scan(
		&expID, &baselineJSON, &interventionJSON, &res.EffectSize, &res.PercentChange,
		&direction, &res.ConfidenceLevel, &significance, &res.SummaryStatement,
		&caveatsJSON, &suggestionsJSON, &analyzedAt)
	if err != nil {
		return nil, err
	}

	res.ExperimentID = core.ExperimentID(expID)
	res.Direction = results.Direction(direction)
	res.Significance = results.Significance(significance)
	res.AnalyzedAt = core.NewTimestamp(analyzedAt)

	if err := json.Unmarshal(baselineJSON, &res.Baseline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline summary: %w", err)
	}
	if err := json.Unmarshal(interventionJSON, &res.Intervention); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intervention summary: %w", err)
	}
	json.Unmarshal(caveatsJSON, &res.Caveats)
	json.Unmarshal(suggestionsJSON, &res.Suggestions)

	return &res, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ExperimentRepositoryImpl) scanExperiment(row rowScanner) (*experiment.Experiment, error) {
	var exp experiment.Experiment
	var id, status string
	var createdAt time.Time

	err := row.Scan(&id, &exp.Title, &exp.Hypothesis, &exp.InterventionName, &exp.OutcomeName,
		&exp.BaselineDays, &exp.InterventionDays, &exp.MinimumDataPoints, &status, &createdAt)
	if err != nil {
		return nil, err
	}

	exp.ID = core.ExperimentID(id)
	exp.Status = experiment.Status(status)
	exp.CreatedAt = core.NewTimestamp(createdAt)
	return &exp, nil
}
