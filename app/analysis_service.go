package app

import (
	"context"
	"database/sql"
	stderrors "errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/domain/results"
	"nof1/internal"
	"nof1/internal/analysis"
	"nof1/internal/errors"
	"nof1/internal/quality"
	"nof1/ports"
)

// maxConcurrentAnalyses bounds batch analysis fan-out
const maxConcurrentAnalyses = 4

// AnalysisService orchestrates experiment analysis: it loads a snapshot of an
// experiment's entries, runs the pure analysis engine over it, and persists
// the outcome. All logging happens here, around the engine, never inside it.
type AnalysisService struct {
	experiments ports.ExperimentRepository
	entries     ports.EntryRepository
	logger      *internal.Logger
}

// NewAnalysisService creates the analysis orchestration service
func NewAnalysisService(experiments ports.ExperimentRepository, entries ports.EntryRepository, logger *internal.Logger) *AnalysisService {
	return &AnalysisService{
		experiments: experiments,
		entries:     entries,
		logger:      logger,
	}
}

// LogEntry validates and stores a daily check-in. Entries may be edited up
// until the experiment completes; after that they are immutable.
func (s *AnalysisService) LogEntry(ctx context.Context, entry *experiment.Entry) error {
	if err := entry.Validate(); err != nil {
		return errors.Wrap(err, "invalid entry")
	}

	exp, err := s.getExperiment(ctx, entry.ExperimentID)
	if err != nil {
		return err
	}
	if exp.Status.IsTerminal() {
		return errors.ValidationError("experiment is no longer collecting entries")
	}

	if err := s.entries.Upsert(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to store entry")
	}
	s.logger.Debug("logged entry for experiment %s on %s", entry.ExperimentID, entry.Date)
	return nil
}

// Analyze runs the engine over the experiment's current entries and persists
// the results when analysis succeeds. An insufficient-data outcome is returned
// as-is; nothing is persisted for it.
func (s *AnalysisService) Analyze(ctx context.Context, id core.ExperimentID) (results.Outcome, error) {
	exp, err := s.getExperiment(ctx, id)
	if err != nil {
		return results.Outcome{}, err
	}

	// Snapshot: the slice returned by the repository is owned by this call,
	// so the engine never sees concurrent mutation.
	entries, err := s.entries.ListByExperiment(ctx, id)
	if err != nil {
		return results.Outcome{}, errors.Wrap(err, "failed to load entries")
	}

	outcome, err := analysis.Analyze(exp, entries)
	if err != nil {
		return results.Outcome{}, err
	}

	if !outcome.IsAnalyzed() {
		s.logger.Info("experiment %s not ready: baseline=%d intervention=%d required=%d",
			id, outcome.Insufficient.BaselineCount, outcome.Insufficient.InterventionCount, outcome.Insufficient.Required)
		return outcome, nil
	}

	if err := s.experiments.AttachResults(ctx, outcome.Results); err != nil {
		return results.Outcome{}, errors.Wrap(err, "failed to persist results")
	}
	s.logger.Info("analyzed experiment %s: d=%.2f direction=%s significance=%s confidence=%.2f",
		id, outcome.Results.EffectSize, outcome.Results.Direction, outcome.Results.Significance, outcome.Results.ConfidenceLevel)
	return outcome, nil
}

// CompleteAndAnalyze finishes an experiment: if analysis succeeds the
// experiment transitions to completed and the results are attached. With
// insufficient data the experiment keeps collecting and no transition happens.
func (s *AnalysisService) CompleteAndAnalyze(ctx context.Context, id core.ExperimentID) (results.Outcome, error) {
	exp, err := s.getExperiment(ctx, id)
	if err != nil {
		return results.Outcome{}, err
	}
	if !exp.Status.CanTransitionTo(experiment.StatusCompleted) {
		return results.Outcome{}, errors.ValidationError("experiment cannot be completed from status " + string(exp.Status))
	}

	outcome, err := s.Analyze(ctx, id)
	if err != nil || !outcome.IsAnalyzed() {
		return outcome, err
	}

	if err := s.experiments.UpdateStatus(ctx, id, experiment.StatusCompleted); err != nil {
		return results.Outcome{}, errors.Wrap(err, "failed to complete experiment")
	}
	return outcome, nil
}

// AnalyzeAll analyzes several experiments with bounded concurrency. Each
// experiment's input is independent, so invocations need no coordination.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, ids []core.ExperimentID) (map[core.ExperimentID]results.Outcome, error) {
	outcomes := make(map[core.ExperimentID]results.Outcome, len(ids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAnalyses)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			outcome, err := s.Analyze(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			outcomes[id] = outcome
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Quality computes the always-available data quality report
func (s *AnalysisService) Quality(ctx context.Context, id core.ExperimentID) (quality.Report, error) {
	exp, err := s.getExperiment(ctx, id)
	if err != nil {
		return quality.Report{}, err
	}
	entries, err := s.entries.ListByExperiment(ctx, id)
	if err != nil {
		return quality.Report{}, errors.Wrap(err, "failed to load entries")
	}
	return quality.BuildReport(exp, entries), nil
}

// Transition moves an experiment through its lifecycle and persists the change
func (s *AnalysisService) Transition(ctx context.Context, id core.ExperimentID, next experiment.Status) error {
	exp, err := s.getExperiment(ctx, id)
	if err != nil {
		return err
	}
	if err := exp.Transition(next); err != nil {
		return errors.Wrap(err, "illegal transition")
	}
	if err := s.experiments.UpdateStatus(ctx, id, next); err != nil {
		return errors.Wrap(err, "failed to update status")
	}
	s.logger.Info("experiment %s transitioned to %s", id, next)
	return nil
}

func (s *AnalysisService) getExperiment(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("experiment")
		}
		return nil, errors.Wrap(err, "failed to load experiment")
	}
	return exp, nil
}
