package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/domain/results"
)

func testExperiment(t *testing.T) *experiment.Experiment {
	t.Helper()
	exp, err := experiment.New("Evening walks", "Walking after dinner improves my sleep",
		"Evening walks", "sleep quality", 7, 14)
	require.NoError(t, err)
	return exp
}

// buildEntries creates one entry per value with consecutive dates. A nil value
// yields an entry without an outcome. Intervention entries get the applied flag.
func buildEntries(exp *experiment.Experiment, phase experiment.Phase, start time.Time, values []*int) []experiment.Entry {
	applied := true
	entries := make([]experiment.Entry, 0, len(values))
	for i, v := range values {
		e := experiment.Entry{
			ID:           core.NewEntryID(),
			ExperimentID: exp.ID,
			Date:         core.NewDay(start.AddDate(0, 0, i)),
			Phase:        phase,
			OutcomeValue: v,
			CreatedAt:    core.Now(),
		}
		if phase == experiment.PhaseIntervention {
			e.InterventionApplied = &applied
		}
		entries = append(entries, e)
	}
	return entries
}

func ints(values ...int) []*int {
	out := make([]*int, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func TestAnalyzeClearImprovement(t *testing.T) {
	exp := testExperiment(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	entries := buildEntries(exp, experiment.PhaseBaseline, start, ints(2, 2, 3, 2, 3, 2, 3))
	entries = append(entries, buildEntries(exp, experiment.PhaseIntervention, start.AddDate(0, 0, 7),
		ints(4, 4, 5, 4, 4, 5, 4, 5, 4, 4, 4, 4, 4))...)

	outcome, err := Analyze(exp, entries)
	require.NoError(t, err)
	require.True(t, outcome.IsAnalyzed())

	res := outcome.Results
	assert.Equal(t, exp.ID, res.ExperimentID)
	assert.Equal(t, 7, res.Baseline.N)
	assert.Equal(t, 13, res.Intervention.N)
	assert.InDelta(t, 2.4286, res.Baseline.Mean, 0.001)
	assert.InDelta(t, 4.2308, res.Intervention.Mean, 0.001)
	assert.InDelta(t, 0.5345, res.Baseline.StdDev, 0.001)
	assert.InDelta(t, 0.4385, res.Intervention.StdDev, 0.001)

	assert.InDelta(t, 3.8126, res.EffectSize, 0.001)
	assert.InDelta(t, 74.21, res.PercentChange, 0.01)
	assert.Equal(t, results.DirectionImproved, res.Direction)

	// 0.5 base + 0.20 (n=20) + 0.15 (avg sd < 0.5) + 0.10 (all complete)
	assert.InDelta(t, 0.95, res.ConfidenceLevel, 1e-9)
	assert.Equal(t, results.SignificanceHigh, res.Significance)

	assert.Equal(t,
		"Evening walks appears to have improved your sleep quality by +74.2%.",
		res.SummaryStatement)

	// Phase sizes differ by 6, so the imbalance caveat fires ahead of the disclaimer
	require.Len(t, res.Caveats, 2)
	assert.Contains(t, res.Caveats[0], "Unequal phase sizes")
	assert.Contains(t, res.Caveats[1], "N-of-1")

	require.Len(t, res.Suggestions, 1)
	assert.Contains(t, res.Suggestions[0], "regular habit")

	assert.NoError(t, res.Validate())
}

func TestAnalyzeIdenticalPhasesIsNoChange(t *testing.T) {
	exp := testExperiment(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	entries := buildEntries(exp, experiment.PhaseBaseline, start, ints(3, 3, 3, 3, 3))
	entries = append(entries, buildEntries(exp, experiment.PhaseIntervention, start.AddDate(0, 0, 7),
		ints(3, 3, 3, 3, 3))...)

	outcome, err := Analyze(exp, entries)
	require.NoError(t, err)
	require.True(t, outcome.IsAnalyzed())

	res := outcome.Results
	assert.Zero(t, res.EffectSize)
	assert.Zero(t, res.PercentChange)
	assert.Equal(t, results.DirectionNoChange, res.Direction)
	assert.Equal(t, results.SignificanceInsufficient, res.Significance)
	assert.Contains(t, res.SummaryStatement, "no detectable difference")
}

func TestAnalyzeInsufficientData(t *testing.T) {
	exp := testExperiment(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Baseline meets the minimum, intervention does not
	entries := buildEntries(exp, experiment.PhaseBaseline, start, ints(2, 3, 2, 3, 2))
	entries = append(entries, buildEntries(exp, experiment.PhaseIntervention, start.AddDate(0, 0, 7),
		ints(4, 4, 4))...)

	outcome, err := Analyze(exp, entries)
	require.NoError(t, err)
	require.False(t, outcome.IsAnalyzed())

	ins := outcome.Insufficient
	assert.Equal(t, 5, ins.BaselineCount)
	assert.Equal(t, 3, ins.InterventionCount)
	assert.Equal(t, exp.MinimumDataPoints, ins.Required)
	assert.NotEmpty(t, ins.Message)
	assert.NotEmpty(t, ins.RecommendedAction)
}

func TestAnalyzeEntriesWithoutOutcomeDoNotCountTowardGate(t *testing.T) {
	exp := testExperiment(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Five baseline days logged, but only four carry an outcome rating
	two, three := 2, 3
	entries := buildEntries(exp, experiment.PhaseBaseline, start, []*int{&two, &three, nil, &two, &three})
	entries = append(entries, buildEntries(exp, experiment.PhaseIntervention, start.AddDate(0, 0, 7),
		ints(4, 4, 5, 4, 4))...)

	outcome, err := Analyze(exp, entries)
	require.NoError(t, err)
	require.False(t, outcome.IsAnalyzed())
	assert.Equal(t, 4, outcome.Insufficient.BaselineCount)
}

func TestAnalyzeRejectsMalformedInput(t *testing.T) {
	exp := testExperiment(t)

	_, err := Analyze(nil, nil)
	assert.Error(t, err)

	foreign := buildEntries(exp, experiment.PhaseBaseline,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ints(3))
	foreign[0].ExperimentID = core.NewExperimentID()
	_, err = Analyze(exp, foreign)
	assert.Error(t, err)

	bad := *exp
	bad.MinimumDataPoints = 0
	_, err = Analyze(&bad, nil)
	assert.Error(t, err)
}
