package report

import (
	"strings"
	"testing"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/domain/results"
)

func fixtures() (*experiment.Experiment, *results.ExperimentResults) {
	exp := &experiment.Experiment{
		ID:               core.NewExperimentID(),
		Title:            "Evening walks",
		Hypothesis:       "Walking after dinner improves my sleep",
		InterventionName: "Evening walks",
		OutcomeName:      "sleep quality",
	}
	res := &results.ExperimentResults{
		ExperimentID:     exp.ID,
		Baseline:         results.PhaseSummary{N: 7, Mean: 2.43, StdDev: 0.53, Min: 2, Max: 3, Median: 2},
		Intervention:     results.PhaseSummary{N: 13, Mean: 4.23, StdDev: 0.44, Min: 4, Max: 5, Median: 4},
		EffectSize:       3.81,
		PercentChange:    74.2,
		Direction:        results.DirectionImproved,
		ConfidenceLevel:  0.95,
		Significance:     results.SignificanceHigh,
		SummaryStatement: "Evening walks appears to have improved your sleep quality by +74.2%.",
		Caveats:          []string{"Unequal phase sizes: baseline has 7 measured days, intervention has 13.", "This is a personal (N-of-1) experiment."},
		Suggestions:      []string{"The improvement looks solid. Consider making Evening walks a regular habit."},
	}
	return exp, res
}

func TestRender(t *testing.T) {
	exp, res := fixtures()
	md := Render(exp, res)

	for _, want := range []string{
		"# Evening walks",
		"*Hypothesis: Walking after dinner improves my sleep*",
		res.SummaryStatement,
		"| Days measured | 7 | 13 |",
		"| Mean sleep quality | 2.43 | 4.23 |",
		"## Caveats",
		"## Suggestions",
		"**3.81**",
		"**95%**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("rendered markdown missing %q", want)
		}
	}
}

func TestRenderNoHypothesis(t *testing.T) {
	exp, res := fixtures()
	exp.Hypothesis = ""
	if strings.Contains(Render(exp, res), "Hypothesis") {
		t.Error("report should omit the hypothesis line when none was set")
	}
}

func TestRenderHTML(t *testing.T) {
	exp, res := fixtures()
	html := string(RenderHTML(exp, res))

	if !strings.Contains(html, "<h1") {
		t.Error("expected an h1 heading in HTML output")
	}
	if !strings.Contains(html, "<table>") {
		t.Error("expected the statistics table to render as HTML")
	}
}
