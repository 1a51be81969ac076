package ports

import (
	"context"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/domain/results"
)

// ExperimentRepository defines the interface for experiment persistence
type ExperimentRepository interface {
	// Create stores a new experiment
	Create(ctx context.Context, exp *experiment.Experiment) error

	// GetByID retrieves an experiment by its ID
	GetByID(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error)

	// List returns experiments ordered by creation time, newest first
	List(ctx context.Context, limit int) ([]*experiment.Experiment, error)

	// UpdateStatus persists a lifecycle transition
	UpdateStatus(ctx context.Context, id core.ExperimentID, status experiment.Status) error

	// AttachResults stores analysis results for an experiment (replacing any prior analysis)
	AttachResults(ctx context.Context, res *results.ExperimentResults) error

	// GetResults retrieves the attached results, if the experiment has been analyzed
	GetResults(ctx context.Context, id core.ExperimentID) (*results.ExperimentResults, error)
}
