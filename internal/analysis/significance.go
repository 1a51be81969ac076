package analysis

import (
	"math"

	"nof1/domain/results"
)

// significanceRule pairs a predicate over (|d|, confidence) with the level it
// grants. Rules are evaluated in order; first match wins.
type significanceRule struct {
	level   results.Significance
	matches func(absD, confidence float64) bool
}

var significanceRules = []significanceRule{
	{results.SignificanceHigh, func(absD, confidence float64) bool {
		return absD >= 0.8 && confidence >= 0.7
	}},
	{results.SignificanceModerate, func(absD, confidence float64) bool {
		return (absD >= 0.5 && confidence >= 0.5) || (absD >= 0.3 && confidence >= 0.7)
	}},
	{results.SignificanceLow, func(absD, confidence float64) bool {
		return absD >= 0.2 && confidence >= 0.4
	}},
}

// ClassifySignificance maps effect magnitude and confidence to the four-tier
// rating. A |d| below 0.2 fails even the low rule, so "no change" results are
// always rated insufficient by construction.
func ClassifySignificance(effectSize, confidence float64) results.Significance {
	absD := math.Abs(effectSize)
	for _, rule := range significanceRules {
		if rule.matches(absD, confidence) {
			return rule.level
		}
	}
	return results.SignificanceInsufficient
}
