package analysis

// ConfidenceInput carries the four factors the confidence heuristic weighs
type ConfidenceInput struct {
	AnalyzedN       int     // Outcome-bearing entries across both phases
	AvgStdDev       float64 // Average of the two phase standard deviations
	CompletionRate  float64 // Complete entries / all entries (including no-outcome days)
	ConfoundingRate float64 // Flagged entries / all entries
}

// EstimateConfidence scores how much to trust the effect estimate, on [0, 1].
//
// This is a bounded additive heuristic, not a statistical confidence interval:
// it starts neutral at 0.5 and adjusts for sample size, outcome variability,
// data completeness, and confounding frequency. The weights and thresholds are
// fixed policy constants with no statistical derivation; they are kept exactly
// for behavioral compatibility and should not be re-tuned casually.
func EstimateConfidence(in ConfidenceInput) float64 {
	confidence := 0.5

	// Sample size bonus
	switch {
	case in.AnalyzedN >= 20:
		confidence += 0.20
	case in.AnalyzedN >= 14:
		confidence += 0.15
	case in.AnalyzedN >= 10:
		confidence += 0.10
	default:
		confidence += 0.05
	}

	// Variability bonus: steadier outcomes earn more trust
	switch {
	case in.AvgStdDev < 0.5:
		confidence += 0.15
	case in.AvgStdDev < 1.0:
		confidence += 0.10
	case in.AvgStdDev < 1.5:
		confidence += 0.05
	}

	// Completeness bonus
	switch {
	case in.CompletionRate >= 0.9:
		confidence += 0.10
	case in.CompletionRate >= 0.7:
		confidence += 0.05
	}

	// Confounding penalty
	switch {
	case in.ConfoundingRate > 0.3:
		confidence -= 0.10
	case in.ConfoundingRate > 0.1:
		confidence -= 0.05
	}

	return clamp01(confidence)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
