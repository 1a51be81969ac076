package analysis

import (
	"math"

	"nof1/domain/results"
)

// smallEffectThreshold is the conventional Cohen boundary below which an
// effect is read as "no change". Fixed policy, not user-configurable.
const smallEffectThreshold = 0.2

// PooledStdDev combines both phases' variances weighted by degrees of freedom
func PooledStdDev(sd1 float64, n1 int, sd2 float64, n2 int) float64 {
	df := float64(n1 + n2 - 2)
	if df <= 0 {
		return 0
	}
	pooledVar := (float64(n1-1)*sd1*sd1 + float64(n2-1)*sd2*sd2) / df
	return math.Sqrt(pooledVar)
}

// CohenD computes the standardized mean difference between phases.
// Positive d means the intervention mean exceeds the baseline mean.
// A zero pooled SD (every value identical in both phases) yields d = 0,
// read as "no detectable effect" rather than an error.
func CohenD(baselineMean, baselineSD float64, baselineN int, interventionMean, interventionSD float64, interventionN int) float64 {
	pooled := PooledStdDev(baselineSD, baselineN, interventionSD, interventionN)
	if pooled == 0 {
		return 0
	}
	return (interventionMean - baselineMean) / pooled
}

// PercentChange returns the signed percent change of the intervention mean
// relative to the baseline mean, defined as 0 when the baseline mean is 0.
func PercentChange(baselineMean, interventionMean float64) float64 {
	if baselineMean == 0 {
		return 0
	}
	return (interventionMean - baselineMean) / baselineMean * 100
}

// ClassifyDirection maps the signed effect size to a qualitative direction
func ClassifyDirection(effectSize float64) results.Direction {
	if math.Abs(effectSize) < smallEffectThreshold {
		return results.DirectionNoChange
	}
	if effectSize > 0 {
		return results.DirectionImproved
	}
	return results.DirectionDeclined
}
