// Package report renders experiment results as a markdown document, with an
// HTML rendering for the web UI.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"nof1/domain/experiment"
	"nof1/domain/results"
)

// Render produces the markdown report for an analyzed experiment
func Render(exp *experiment.Experiment, res *results.ExperimentResults) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", exp.Title)
	if exp.Hypothesis != "" {
		fmt.Fprintf(&b, "*Hypothesis: %s*\n\n", exp.Hypothesis)
	}
	fmt.Fprintf(&b, "%s\n\n", res.SummaryStatement)

	b.WriteString("## Statistics\n\n")
	b.WriteString("| | Baseline | Intervention |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| Days measured | %d | %d |\n", res.Baseline.N, res.Intervention.N)
	fmt.Fprintf(&b, "| Mean %s | %.2f | %.2f |\n", exp.OutcomeName, res.Baseline.Mean, res.Intervention.Mean)
	fmt.Fprintf(&b, "| Std deviation | %.2f | %.2f |\n", res.Baseline.StdDev, res.Intervention.StdDev)
	fmt.Fprintf(&b, "| Median | %.2f | %.2f |\n", res.Baseline.Median, res.Intervention.Median)
	fmt.Fprintf(&b, "| Range | %.0f–%.0f | %.0f–%.0f |\n\n",
		res.Baseline.Min, res.Baseline.Max, res.Intervention.Min, res.Intervention.Max)

	fmt.Fprintf(&b, "Effect size (Cohen's d): **%.2f** (direction: **%s**, significance: **%s**, confidence: **%.0f%%**)\n\n",
		res.EffectSize, res.Direction, res.Significance, res.ConfidenceLevel*100)

	if len(res.Caveats) > 0 {
		b.WriteString("## Caveats\n\n")
		for _, c := range res.Caveats {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(res.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range res.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML renders the markdown report to HTML
func RenderHTML(exp *experiment.Experiment, res *results.ExperimentResults) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Render(exp, res)), p, renderer)
}
