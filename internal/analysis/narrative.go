package analysis

import (
	"fmt"
	"math"

	"nof1/domain/results"
)

// nOfOneDisclaimer always closes the caveat list
const nOfOneDisclaimer = "This is a personal (N-of-1) experiment: the result describes you under these conditions, not people in general."

// NarrativeInput is everything the text rules look at
type NarrativeInput struct {
	InterventionName string
	OutcomeName      string
	Direction        results.Direction
	EffectSize       float64
	PercentChange    float64
	Confidence       float64
	Significance     results.Significance
	BaselineN        int
	InterventionN    int
	AvgStdDev        float64
	CompletionRate   float64
	ConfoundedCount  int
	ConfoundingRate  float64
}

func (in NarrativeInput) totalN() int {
	return in.BaselineN + in.InterventionN
}

// strongEvidence separates confident claims from tentative ones in the
// summary and suggestion wording.
func (in NarrativeInput) strongEvidence() bool {
	return in.Significance == results.SignificanceHigh || in.Significance == results.SignificanceModerate
}

// BuildSummary produces the one-sentence interpretation. Percent change is
// always shown with one decimal and an explicit sign.
func BuildSummary(in NarrativeInput) string {
	absPct := math.Abs(in.PercentChange)

	switch in.Direction {
	case results.DirectionImproved:
		if in.strongEvidence() {
			return fmt.Sprintf("%s appears to have improved your %s by +%.1f%%.",
				in.InterventionName, in.OutcomeName, absPct)
		}
		return fmt.Sprintf("%s may have improved your %s by +%.1f%%, but the evidence is tentative.",
			in.InterventionName, in.OutcomeName, absPct)
	case results.DirectionDeclined:
		if in.strongEvidence() {
			return fmt.Sprintf("%s appears to have worsened your %s by -%.1f%%.",
				in.InterventionName, in.OutcomeName, absPct)
		}
		return fmt.Sprintf("%s may have worsened your %s by -%.1f%%, but the evidence is tentative.",
			in.InterventionName, in.OutcomeName, absPct)
	default:
		return fmt.Sprintf("%s made no detectable difference to your %s.",
			in.InterventionName, in.OutcomeName)
	}
}

// caveatRule pairs an independent trigger with its text. Rules fire in order;
// the N-of-1 disclaimer is appended last unconditionally.
type caveatRule struct {
	triggered func(in NarrativeInput) bool
	text      func(in NarrativeInput) string
}

var caveatRules = []caveatRule{
	{
		triggered: func(in NarrativeInput) bool { return in.totalN() < 14 },
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("Limited data: only %d measured days in total. The picture may shift as you log more.", in.totalN())
		},
	},
	{
		triggered: func(in NarrativeInput) bool { return in.AvgStdDev > 1.5 },
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("High variability: your %s swings widely from day to day, which weakens the comparison.", in.OutcomeName)
		},
	},
	{
		triggered: func(in NarrativeInput) bool { return in.ConfoundedCount > 0 },
		text: func(in NarrativeInput) string {
			if in.ConfoundedCount == 1 {
				return "1 day was flagged with confounding factors that may have distorted the result."
			}
			return fmt.Sprintf("%d days were flagged with confounding factors that may have distorted the result.", in.ConfoundedCount)
		},
	},
	{
		triggered: func(in NarrativeInput) bool {
			diff := in.BaselineN - in.InterventionN
			if diff < 0 {
				diff = -diff
			}
			return diff > 3
		},
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("Unequal phase sizes: baseline has %d measured days, intervention has %d.", in.BaselineN, in.InterventionN)
		},
	},
	{
		triggered: func(in NarrativeInput) bool { return in.CompletionRate < 0.7 },
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("Incomplete entries: only %.0f%% of logged days have complete check-ins.", in.CompletionRate*100)
		},
	},
}

// BuildCaveats assembles the ordered caveat list, disclaimer last
func BuildCaveats(in NarrativeInput) []string {
	caveats := []string{}
	for _, rule := range caveatRules {
		if rule.triggered(in) {
			caveats = append(caveats, rule.text(in))
		}
	}
	return append(caveats, nOfOneDisclaimer)
}

// suggestionRule mirrors caveatRule for actionable follow-ups
type suggestionRule struct {
	triggered func(in NarrativeInput) bool
	text      func(in NarrativeInput) string
}

var suggestionRules = []suggestionRule{
	{
		triggered: func(in NarrativeInput) bool {
			return in.Direction == results.DirectionImproved && in.strongEvidence()
		},
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("The improvement looks solid. Consider making %s a regular habit.", in.InterventionName)
		},
	},
	{
		triggered: func(in NarrativeInput) bool {
			return in.Direction == results.DirectionImproved && !in.strongEvidence()
		},
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("Early signs are positive. Extend the experiment to firm up the evidence before committing to %s.", in.InterventionName)
		},
	},
	{
		triggered: func(in NarrativeInput) bool {
			return in.Direction == results.DirectionDeclined && in.strongEvidence()
		},
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("%s appears to hurt your %s. Consider stopping it or trying a modified version.", in.InterventionName, in.OutcomeName)
		},
	},
	{
		triggered: func(in NarrativeInput) bool {
			return in.Direction == results.DirectionDeclined && !in.strongEvidence()
		},
		text: func(in NarrativeInput) string {
			return "There may be a decline, but it is not clear-cut. Watch it a little longer before deciding."
		},
	},
	{
		triggered: func(in NarrativeInput) bool {
			return in.Direction == results.DirectionNoChange
		},
		text: func(in NarrativeInput) string {
			return fmt.Sprintf("No effect detected. Try a different outcome measure, or a different intervention than %s.", in.InterventionName)
		},
	},
	{
		triggered: func(in NarrativeInput) bool { return in.ConfoundingRate > 0.2 },
		text: func(in NarrativeInput) string {
			return "Many days had outside disruptions. Minimizing them in a follow-up run would give a cleaner signal."
		},
	},
}

// BuildSuggestions assembles the ordered suggestion list
func BuildSuggestions(in NarrativeInput) []string {
	suggestions := []string{}
	for _, rule := range suggestionRules {
		if rule.triggered(in) {
			suggestions = append(suggestions, rule.text(in))
		}
	}
	return suggestions
}
