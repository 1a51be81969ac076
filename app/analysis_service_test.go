package app

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/domain/results"
	"nof1/internal"
	"nof1/internal/errors"
)

// MockExperimentRepository mocks ports.ExperimentRepository
type MockExperimentRepository struct {
	mock.Mock
}

func (m *MockExperimentRepository) Create(ctx context.Context, exp *experiment.Experiment) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperimentRepository) GetByID(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*experiment.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) List(ctx context.Context, limit int) ([]*experiment.Experiment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*experiment.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) UpdateStatus(ctx context.Context, id core.ExperimentID, status experiment.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockExperimentRepository) AttachResults(ctx context.Context, res *results.ExperimentResults) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockExperimentRepository) GetResults(ctx context.Context, id core.ExperimentID) (*results.ExperimentResults, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*results.ExperimentResults), args.Error(1)
}

// MockEntryRepository mocks ports.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Upsert(ctx context.Context, entry *experiment.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) ListByExperiment(ctx context.Context, id core.ExperimentID) ([]experiment.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]experiment.Entry), args.Error(1)
}

func newService(experiments *MockExperimentRepository, entries *MockEntryRepository) *AnalysisService {
	return NewAnalysisService(experiments, entries, internal.NewLogger(internal.LogLevelError))
}

func activeExperiment(status experiment.Status) *experiment.Experiment {
	return &experiment.Experiment{
		ID:                core.NewExperimentID(),
		Title:             "Evening walks",
		InterventionName:  "Evening walks",
		OutcomeName:       "sleep quality",
		BaselineDays:      7,
		InterventionDays:  14,
		MinimumDataPoints: 5,
		Status:            status,
		CreatedAt:         core.Now(),
	}
}

func phaseEntries(exp *experiment.Experiment, phase experiment.Phase, values []int) []experiment.Entry {
	applied := true
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	entries := make([]experiment.Entry, 0, len(values))
	for i := range values {
		e := experiment.Entry{
			ID:           core.NewEntryID(),
			ExperimentID: exp.ID,
			Date:         core.NewDay(start.AddDate(0, 0, i)),
			Phase:        phase,
			OutcomeValue: &values[i],
			CreatedAt:    core.Now(),
		}
		if phase == experiment.PhaseIntervention {
			e.InterventionApplied = &applied
		}
		entries = append(entries, e)
	}
	return entries
}

func fullEntrySet(exp *experiment.Experiment) []experiment.Entry {
	entries := phaseEntries(exp, experiment.PhaseBaseline, []int{2, 2, 3, 2, 3, 2, 3})
	return append(entries, phaseEntries(exp, experiment.PhaseIntervention,
		[]int{4, 4, 5, 4, 4, 5, 4, 5, 4, 4, 4, 4, 4})...)
}

func TestLogEntry(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	exp := activeExperiment(experiment.StatusBaseline)
	three := 3
	entry := &experiment.Entry{
		ID:           core.NewEntryID(),
		ExperimentID: exp.ID,
		Date:         core.Day("2026-03-02"),
		Phase:        experiment.PhaseBaseline,
		OutcomeValue: &three,
	}

	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	entries.On("Upsert", mock.Anything, entry).Return(nil)

	err := service.LogEntry(context.Background(), entry)
	require.NoError(t, err)
	entries.AssertExpectations(t)
}

func TestLogEntryRejectsTerminalExperiment(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	exp := activeExperiment(experiment.StatusCompleted)
	three := 3
	entry := &experiment.Entry{
		ID:           core.NewEntryID(),
		ExperimentID: exp.ID,
		Date:         core.Day("2026-03-02"),
		Phase:        experiment.PhaseBaseline,
		OutcomeValue: &three,
	}

	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)

	err := service.LogEntry(context.Background(), entry)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
	entries.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLogEntryRejectsInvalidEntry(t *testing.T) {
	service := newService(new(MockExperimentRepository), new(MockEntryRepository))

	err := service.LogEntry(context.Background(), &experiment.Entry{})
	require.Error(t, err)
}

func TestAnalyzePersistsResults(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	exp := activeExperiment(experiment.StatusIntervention)
	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	entries.On("ListByExperiment", mock.Anything, exp.ID).Return(fullEntrySet(exp), nil)
	experiments.On("AttachResults", mock.Anything, mock.AnythingOfType("*results.ExperimentResults")).Return(nil)

	outcome, err := service.Analyze(context.Background(), exp.ID)
	require.NoError(t, err)
	require.True(t, outcome.IsAnalyzed())
	assert.Equal(t, results.DirectionImproved, outcome.Results.Direction)
	experiments.AssertExpectations(t)
}

func TestAnalyzeInsufficientDataPersistsNothing(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	exp := activeExperiment(experiment.StatusBaseline)
	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	entries.On("ListByExperiment", mock.Anything, exp.ID).Return(
		phaseEntries(exp, experiment.PhaseBaseline, []int{2, 3}), nil)

	outcome, err := service.Analyze(context.Background(), exp.ID)
	require.NoError(t, err)
	require.False(t, outcome.IsAnalyzed())
	assert.Equal(t, 2, outcome.Insufficient.BaselineCount)
	experiments.AssertNotCalled(t, "AttachResults", mock.Anything, mock.Anything)
}

func TestAnalyzeUnknownExperiment(t *testing.T) {
	experiments := new(MockExperimentRepository)
	service := newService(experiments, new(MockEntryRepository))

	id := core.NewExperimentID()
	experiments.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := service.Analyze(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestCompleteAndAnalyze(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	exp := activeExperiment(experiment.StatusIntervention)
	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	entries.On("ListByExperiment", mock.Anything, exp.ID).Return(fullEntrySet(exp), nil)
	experiments.On("AttachResults", mock.Anything, mock.Anything).Return(nil)
	experiments.On("UpdateStatus", mock.Anything, exp.ID, experiment.StatusCompleted).Return(nil)

	outcome, err := service.CompleteAndAnalyze(context.Background(), exp.ID)
	require.NoError(t, err)
	require.True(t, outcome.IsAnalyzed())
	experiments.AssertExpectations(t)
}

func TestCompleteAndAnalyzeKeepsCollectingOnInsufficientData(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	exp := activeExperiment(experiment.StatusIntervention)
	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	entries.On("ListByExperiment", mock.Anything, exp.ID).Return(
		phaseEntries(exp, experiment.PhaseBaseline, []int{2, 3, 2, 3, 2}), nil)

	outcome, err := service.CompleteAndAnalyze(context.Background(), exp.ID)
	require.NoError(t, err)
	require.False(t, outcome.IsAnalyzed())
	experiments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteAndAnalyzeRejectsWrongState(t *testing.T) {
	experiments := new(MockExperimentRepository)
	service := newService(experiments, new(MockEntryRepository))

	exp := activeExperiment(experiment.StatusDraft)
	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)

	_, err := service.CompleteAndAnalyze(context.Background(), exp.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestAnalyzeAll(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	var ids []core.ExperimentID
	for i := 0; i < 3; i++ {
		exp := activeExperiment(experiment.StatusIntervention)
		experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
		entries.On("ListByExperiment", mock.Anything, exp.ID).Return(fullEntrySet(exp), nil)
		experiments.On("AttachResults", mock.Anything, mock.Anything).Return(nil)
		ids = append(ids, exp.ID)
	}

	outcomes, err := service.AnalyzeAll(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for _, id := range ids {
		assert.True(t, outcomes[id].IsAnalyzed())
	}
}

func TestTransition(t *testing.T) {
	experiments := new(MockExperimentRepository)
	service := newService(experiments, new(MockEntryRepository))

	exp := activeExperiment(experiment.StatusDraft)
	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	experiments.On("UpdateStatus", mock.Anything, exp.ID, experiment.StatusBaseline).Return(nil)

	err := service.Transition(context.Background(), exp.ID, experiment.StatusBaseline)
	require.NoError(t, err)

	err = service.Transition(context.Background(), exp.ID, experiment.StatusDraft)
	require.Error(t, err)
}

func TestQuality(t *testing.T) {
	experiments := new(MockExperimentRepository)
	entries := new(MockEntryRepository)
	service := newService(experiments, entries)

	exp := activeExperiment(experiment.StatusBaseline)
	experiments.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	entries.On("ListByExperiment", mock.Anything, exp.ID).Return(
		phaseEntries(exp, experiment.PhaseBaseline, []int{2, 3, 2}), nil)

	report, err := service.Quality(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Baseline.EntryCount)
	assert.False(t, report.ReadyToAnalyze)
}
