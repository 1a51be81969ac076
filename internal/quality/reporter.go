// Package quality computes the UI-facing data quality report for an
// experiment. Unlike the analysis engine it has no minimum-data precondition:
// it is always computable, and callers use it to gate affordances such as the
// "Start Intervention" button before analysis is even possible.
package quality

import (
	"nof1/domain/experiment"
	"nof1/internal/analysis"
)

// Quality rating tiers
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingFair             = "Fair"
	RatingNeedsImprovement = "Needs Improvement"
)

// PhaseProgress reports one phase's data collection state
type PhaseProgress struct {
	EntryCount int     `json:"entry_count"` // Outcome-bearing entries, matching the analysis gate
	Required   int     `json:"required"`
	Progress   float64 `json:"progress"` // EntryCount / Required, clamped to [0, 1]
	Complete   bool    `json:"complete"`
}

// Report is the full data quality picture for an experiment
type Report struct {
	Baseline        PhaseProgress `json:"baseline"`
	Intervention    PhaseProgress `json:"intervention"`
	CompletionRate  float64       `json:"completion_rate"`
	ConfoundingRate float64       `json:"confounding_rate"`
	QualityRating   string        `json:"quality_rating"`
	ReadyToAnalyze  bool          `json:"ready_to_analyze"`
}

// BuildReport computes the quality report over the full entry list
func BuildReport(exp *experiment.Experiment, entries []experiment.Entry) Report {
	baseline, intervention := analysis.SplitPhases(entries)
	tally := analysis.Tally(entries)

	baselineProgress := phaseProgress(len(baseline), exp.MinimumDataPoints)
	interventionProgress := phaseProgress(len(intervention), exp.MinimumDataPoints)

	return Report{
		Baseline:        baselineProgress,
		Intervention:    interventionProgress,
		CompletionRate:  tally.CompletionRate,
		ConfoundingRate: tally.ConfoundingRate,
		QualityRating:   rate(tally.CompletionRate, tally.ConfoundingRate),
		ReadyToAnalyze:  baselineProgress.Complete && interventionProgress.Complete,
	}
}

func phaseProgress(count, required int) PhaseProgress {
	progress := 0.0
	if required > 0 {
		progress = float64(count) / float64(required)
		if progress > 1 {
			progress = 1
		}
	}
	return PhaseProgress{
		EntryCount: count,
		Required:   required,
		Progress:   progress,
		Complete:   count >= required,
	}
}

// rate maps completion and confounding rates to the four-tier label
func rate(completionRate, confoundingRate float64) string {
	switch {
	case completionRate >= 0.9 && confoundingRate < 0.1:
		return RatingExcellent
	case completionRate >= 0.7 && confoundingRate < 0.2:
		return RatingGood
	case completionRate >= 0.5:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}
