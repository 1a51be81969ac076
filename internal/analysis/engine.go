// Package analysis implements the N-of-1 experiment analysis engine: a pure,
// synchronous computation that turns an experiment configuration and its daily
// entries into descriptive statistics, an effect size, a heuristic confidence
// score, a significance rating, and human-readable interpretation. It owns no
// state and performs no I/O; callers log and persist around it.
package analysis

import (
	"math"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/domain/results"
	"nof1/internal/errors"
)

// Analyze runs the full pipeline over a snapshot of an experiment's entries.
//
// It returns an error only for malformed input (nil or invalid experiment,
// entries belonging to a different experiment). Given well-formed input it is
// total: too little data yields the insufficient-data outcome, and degenerate
// distributions yield a zero effect, never a fault.
func Analyze(exp *experiment.Experiment, entries []experiment.Entry) (results.Outcome, error) {
	if exp == nil {
		return results.Outcome{}, errors.InvalidInput("experiment must not be nil")
	}
	if err := exp.Validate(); err != nil {
		return results.Outcome{}, errors.Wrap(err, "invalid experiment configuration")
	}
	for _, e := range entries {
		if e.ExperimentID != exp.ID {
			return results.Outcome{}, errors.InvalidInput("entry belongs to a different experiment")
		}
	}

	baseline, intervention := SplitPhases(entries)

	// Minimum-data gate: short-circuit rather than fabricate a result.
	if len(baseline) < exp.MinimumDataPoints || len(intervention) < exp.MinimumDataPoints {
		return results.NotEnoughData(len(baseline), len(intervention), exp.MinimumDataPoints), nil
	}

	baselineSummary := Summarize(baseline)
	interventionSummary := Summarize(intervention)

	effectSize := CohenD(
		baselineSummary.Mean, baselineSummary.StdDev, baselineSummary.N,
		interventionSummary.Mean, interventionSummary.StdDev, interventionSummary.N,
	)
	percentChange := PercentChange(baselineSummary.Mean, interventionSummary.Mean)
	direction := ClassifyDirection(effectSize)

	tally := Tally(entries)
	avgStdDev := (baselineSummary.StdDev + interventionSummary.StdDev) / 2

	confidence := EstimateConfidence(ConfidenceInput{
		AnalyzedN:       baselineSummary.N + interventionSummary.N,
		AvgStdDev:       avgStdDev,
		CompletionRate:  tally.CompletionRate,
		ConfoundingRate: tally.ConfoundingRate,
	})
	significance := ClassifySignificance(effectSize, confidence)

	narrative := NarrativeInput{
		InterventionName: exp.InterventionName,
		OutcomeName:      exp.OutcomeName,
		Direction:        direction,
		EffectSize:       math.Abs(effectSize),
		PercentChange:    percentChange,
		Confidence:       confidence,
		Significance:     significance,
		BaselineN:        baselineSummary.N,
		InterventionN:    interventionSummary.N,
		AvgStdDev:        avgStdDev,
		CompletionRate:   tally.CompletionRate,
		ConfoundedCount:  tally.Confounded,
		ConfoundingRate:  tally.ConfoundingRate,
	}

	res := &results.ExperimentResults{
		ExperimentID:     exp.ID,
		Baseline:         baselineSummary,
		Intervention:     interventionSummary,
		EffectSize:       effectSize,
		PercentChange:    percentChange,
		Direction:        direction,
		ConfidenceLevel:  confidence,
		Significance:     significance,
		SummaryStatement: BuildSummary(narrative),
		Caveats:          BuildCaveats(narrative),
		Suggestions:      BuildSuggestions(narrative),
		AnalyzedAt:       core.Now(),
	}
	return results.Analyzed(res), nil
}
