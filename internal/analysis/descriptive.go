package analysis

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"nof1/domain/results"
)

// Mean returns the arithmetic mean, defined as 0 for an empty series.
// This path is only reached behind the minimum-data-points gate, but every
// statistic here is total over its input domain.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// SampleStdDev returns the sample standard deviation (Bessel's correction),
// defined as 0 when fewer than two values are present.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Summarize computes the per-phase descriptive summary: mean and sample
// standard deviation plus the min/max/median profile shown on result cards.
func Summarize(values []float64) results.PhaseSummary {
	summary := results.PhaseSummary{
		N:      len(values),
		Mean:   Mean(values),
		StdDev: SampleStdDev(values),
	}
	if len(values) == 0 {
		return summary
	}
	// montanaflynn errors only on empty input, which is guarded above.
	summary.Min, _ = stats.Min(values)
	summary.Max, _ = stats.Max(values)
	summary.Median, _ = stats.Median(values)
	return summary
}
