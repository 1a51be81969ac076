package analysis

import (
	"math"
	"testing"
)

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   ConfidenceInput
		want float64
	}{
		{
			name: "best case",
			in:   ConfidenceInput{AnalyzedN: 20, AvgStdDev: 0.4, CompletionRate: 1.0, ConfoundingRate: 0},
			want: 0.95, // 0.5 + 0.20 + 0.15 + 0.10
		},
		{
			name: "worst case",
			in:   ConfidenceInput{AnalyzedN: 5, AvgStdDev: 2.0, CompletionRate: 0.5, ConfoundingRate: 0.5},
			want: 0.45, // 0.5 + 0.05 + 0 + 0 - 0.10
		},
		{
			name: "mid sample mid variability",
			in:   ConfidenceInput{AnalyzedN: 14, AvgStdDev: 0.9, CompletionRate: 0.8, ConfoundingRate: 0.15},
			want: 0.75, // 0.5 + 0.15 + 0.10 + 0.05 - 0.05
		},
		{
			name: "sample size boundary at 10",
			in:   ConfidenceInput{AnalyzedN: 10, AvgStdDev: 2.0, CompletionRate: 0, ConfoundingRate: 0},
			want: 0.60, // 0.5 + 0.10
		},
		{
			name: "sample size just below 10",
			in:   ConfidenceInput{AnalyzedN: 9, AvgStdDev: 2.0, CompletionRate: 0, ConfoundingRate: 0},
			want: 0.55, // 0.5 + 0.05
		},
		{
			name: "variability boundary at 1.5 earns nothing",
			in:   ConfidenceInput{AnalyzedN: 5, AvgStdDev: 1.5, CompletionRate: 0, ConfoundingRate: 0},
			want: 0.55,
		},
		{
			name: "confounding boundary at 0.1 is not penalized",
			in:   ConfidenceInput{AnalyzedN: 5, AvgStdDev: 2.0, CompletionRate: 0, ConfoundingRate: 0.1},
			want: 0.55,
		},
		{
			name: "confounding boundary at 0.3 takes the smaller penalty",
			in:   ConfidenceInput{AnalyzedN: 5, AvgStdDev: 2.0, CompletionRate: 0, ConfoundingRate: 0.3},
			want: 0.50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateConfidence(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EstimateConfidence(%+v) = %f, want %f", tt.in, got, tt.want)
			}
		})
	}
}

func TestEstimateConfidenceBounds(t *testing.T) {
	// Sweep a coarse grid; every score must stay in [0, 1]
	for _, n := range []int{0, 5, 10, 14, 20, 100} {
		for _, sd := range []float64{0, 0.4, 0.9, 1.4, 3.0} {
			for _, completion := range []float64{0, 0.5, 0.7, 0.9, 1.0} {
				for _, confounding := range []float64{0, 0.1, 0.2, 0.3, 1.0} {
					got := EstimateConfidence(ConfidenceInput{
						AnalyzedN:       n,
						AvgStdDev:       sd,
						CompletionRate:  completion,
						ConfoundingRate: confounding,
					})
					if got < 0 || got > 1 {
						t.Fatalf("confidence out of bounds: %f for n=%d sd=%f completion=%f confounding=%f",
							got, n, sd, completion, confounding)
					}
				}
			}
		}
	}
}
