package analysis

import (
	"nof1/domain/experiment"
)

// SplitPhases partitions entries into baseline and intervention outcome series.
// Entries without an outcome value are dropped here: they cannot contribute to
// the statistics, but they still count toward completeness in the quality
// metrics, which operate on the full entry list.
func SplitPhases(entries []experiment.Entry) (baseline, intervention []float64) {
	for _, e := range entries {
		if !e.HasOutcome() {
			continue
		}
		v := float64(*e.OutcomeValue)
		switch e.Phase {
		case experiment.PhaseBaseline:
			baseline = append(baseline, v)
		case experiment.PhaseIntervention:
			intervention = append(intervention, v)
		}
	}
	return baseline, intervention
}

// EntryTally aggregates per-entry flags across the full entry list, including
// entries that carry no outcome value.
type EntryTally struct {
	Total           int
	Complete        int
	Confounded      int
	CompletionRate  float64
	ConfoundingRate float64
}

// Tally computes completeness and confounding rates over all entries
func Tally(entries []experiment.Entry) EntryTally {
	t := EntryTally{Total: len(entries)}
	for _, e := range entries {
		if e.IsComplete() {
			t.Complete++
		}
		if e.HasConfoundingFactors {
			t.Confounded++
		}
	}
	if t.Total > 0 {
		t.CompletionRate = float64(t.Complete) / float64(t.Total)
		t.ConfoundingRate = float64(t.Confounded) / float64(t.Total)
	}
	return t
}
