package ports

import (
	"context"

	"nof1/domain/core"
	"nof1/domain/experiment"
)

// EntryRepository defines the interface for daily entry persistence
type EntryRepository interface {
	// Upsert stores an entry, replacing any existing entry for the same experiment and date
	Upsert(ctx context.Context, entry *experiment.Entry) error

	// ListByExperiment returns all entries for an experiment ordered by date
	ListByExperiment(ctx context.Context, id core.ExperimentID) ([]experiment.Entry, error)
}
