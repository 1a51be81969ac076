package results

import (
	"fmt"

	"nof1/domain/core"
)

// ============================================================================
// CLASSIFICATIONS
// ============================================================================

// Direction is the qualitative reading of the signed effect size
type Direction string

const (
	DirectionImproved Direction = "improved"
	DirectionDeclined Direction = "declined"
	DirectionNoChange Direction = "no_change"
)

// Significance is a heuristic four-tier label combining effect magnitude and
// confidence. It is not p-value-based statistical significance.
type Significance string

const (
	SignificanceHigh         Significance = "high"
	SignificanceModerate     Significance = "moderate"
	SignificanceLow          Significance = "low"
	SignificanceInsufficient Significance = "insufficient"
)

// Rank orders significance levels for monotonicity comparisons (insufficient=0 .. high=3)
func (s Significance) Rank() int {
	switch s {
	case SignificanceHigh:
		return 3
	case SignificanceModerate:
		return 2
	case SignificanceLow:
		return 1
	default:
		return 0
	}
}

// ============================================================================
// ANALYSIS OUTPUT
// ============================================================================

// PhaseSummary contains descriptive statistics for one phase's outcome values
type PhaseSummary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// ExperimentResults is the analysis output for a completed experiment.
// INVARIANTS:
// - ConfidenceLevel always in [0.0, 1.0]
// - Baseline.N and Intervention.N each meet the experiment's minimum data points
//   (the engine never produces results otherwise)
// - Caveats always ends with the N-of-1 disclaimer
type ExperimentResults struct {
	ExperimentID     core.ExperimentID `json:"experiment_id"`
	Baseline         PhaseSummary      `json:"baseline"`
	Intervention     PhaseSummary      `json:"intervention"`
	EffectSize       float64           `json:"effect_size"`    // Signed Cohen's d (positive = intervention above baseline)
	PercentChange    float64           `json:"percent_change"` // Signed % change of the intervention mean vs baseline
	Direction        Direction         `json:"direction"`
	ConfidenceLevel  float64           `json:"confidence_level"`
	Significance     Significance      `json:"significance"`
	SummaryStatement string            `json:"summary_statement"`
	Caveats          []string          `json:"caveats"`
	Suggestions      []string          `json:"suggestions"`
	AnalyzedAt       core.Timestamp    `json:"analyzed_at"`
}

// Validate checks result invariants
func (r *ExperimentResults) Validate() error {
	if core.ID(r.ExperimentID).IsEmpty() {
		return fmt.Errorf("experiment ID must be set")
	}
	if r.ConfidenceLevel < 0.0 || r.ConfidenceLevel > 1.0 {
		return fmt.Errorf("confidence level must be in [0.0, 1.0], got %f", r.ConfidenceLevel)
	}
	if r.Baseline.N <= 0 || r.Intervention.N <= 0 {
		return fmt.Errorf("phase sample sizes must be > 0, got baseline=%d intervention=%d", r.Baseline.N, r.Intervention.N)
	}
	return nil
}

// ============================================================================
// OUTCOME (tagged union)
// ============================================================================

// InsufficientData reports that a phase has not yet collected enough
// outcome-bearing entries to analyze. This is an expected state, not an error.
type InsufficientData struct {
	BaselineCount     int    `json:"baseline_count"`
	InterventionCount int    `json:"intervention_count"`
	Required          int    `json:"required"`
	Message           string `json:"message"`
	RecommendedAction string `json:"recommended_action"`
}

// Outcome is the result type of analysis: either computed results or an
// explicit insufficient-data signal. Exactly one branch is set.
type Outcome struct {
	Results      *ExperimentResults `json:"results,omitempty"`
	Insufficient *InsufficientData  `json:"insufficient,omitempty"`
}

// Analyzed creates an Outcome carrying computed results
func Analyzed(r *ExperimentResults) Outcome {
	return Outcome{Results: r}
}

// NotEnoughData creates an Outcome signalling too few data points
func NotEnoughData(baselineCount, interventionCount, required int) Outcome {
	return Outcome{Insufficient: &InsufficientData{
		BaselineCount:     baselineCount,
		InterventionCount: interventionCount,
		Required:          required,
		Message: fmt.Sprintf("Not enough data to analyze yet: baseline has %d of %d entries, intervention has %d of %d.",
			baselineCount, required, interventionCount, required),
		RecommendedAction: "Keep logging daily check-ins until both phases reach the minimum.",
	}}
}

// IsAnalyzed reports whether the outcome carries computed results
func (o Outcome) IsAnalyzed() bool {
	return o.Results != nil
}
