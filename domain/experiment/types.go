package experiment

import (
	"fmt"

	"nof1/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Phase identifies which measurement period an entry belongs to
type Phase string

const (
	PhaseBaseline     Phase = "baseline"
	PhaseIntervention Phase = "intervention"
)

// IsValid reports whether the phase is one of the two known phases
func (p Phase) IsValid() bool {
	return p == PhaseBaseline || p == PhaseIntervention
}

// Status represents the experiment lifecycle state
type Status string

const (
	StatusDraft        Status = "draft"
	StatusBaseline     Status = "baseline"
	StatusIntervention Status = "intervention"
	StatusCompleted    Status = "completed"
	StatusAbandoned    Status = "abandoned"
)

// legalTransitions defines the lifecycle state machine:
// draft -> baseline -> intervention -> completed, with abandoned reachable
// from any active state.
var legalTransitions = map[Status][]Status{
	StatusDraft:        {StatusBaseline, StatusAbandoned},
	StatusBaseline:     {StatusIntervention, StatusAbandoned},
	StatusIntervention: {StatusCompleted, StatusAbandoned},
	StatusCompleted:    {},
	StatusAbandoned:    {},
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the experiment can no longer change state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// ============================================================================
// ENTRIES
// ============================================================================

// Outcome value bounds for the 1-5 self-rating scale
const (
	OutcomeMin = 1
	OutcomeMax = 5
)

// Entry is one day's measurement for an experiment.
// OutcomeValue and InterventionApplied are optional: a user may log a day
// without rating the outcome, and the intervention flag is only meaningful
// during the intervention phase.
type Entry struct {
	ID                    core.EntryID      `json:"id"`
	ExperimentID          core.ExperimentID `json:"experiment_id"`
	Date                  core.Day          `json:"date"`
	Phase                 Phase             `json:"phase"`
	OutcomeValue          *int              `json:"outcome_value,omitempty"`
	InterventionApplied   *bool             `json:"intervention_applied,omitempty"`
	HasConfoundingFactors bool              `json:"has_confounding_factors"`
	CreatedAt             core.Timestamp    `json:"created_at"`
}

// HasOutcome reports whether the entry carries an outcome measurement
func (e Entry) HasOutcome() bool {
	return e.OutcomeValue != nil
}

// IsComplete is the single completeness predicate used everywhere:
// an entry is complete when it has an outcome value and, for intervention-phase
// entries, a recorded intervention-applied flag.
func (e Entry) IsComplete() bool {
	if e.OutcomeValue == nil {
		return false
	}
	if e.Phase == PhaseIntervention && e.InterventionApplied == nil {
		return false
	}
	return true
}

// Validate checks entry invariants
func (e Entry) Validate() error {
	if core.ID(e.ExperimentID).IsEmpty() {
		return fmt.Errorf("entry experiment ID must be set")
	}
	if e.Date == "" {
		return fmt.Errorf("entry date must be set")
	}
	if !e.Phase.IsValid() {
		return fmt.Errorf("entry phase must be baseline or intervention, got %q", e.Phase)
	}
	if e.OutcomeValue != nil && (*e.OutcomeValue < OutcomeMin || *e.OutcomeValue > OutcomeMax) {
		return fmt.Errorf("outcome value must be in [%d, %d], got %d", OutcomeMin, OutcomeMax, *e.OutcomeValue)
	}
	return nil
}

// ============================================================================
// EXPERIMENT CONFIGURATION
// ============================================================================

// DefaultMinimumDataPoints is the per-phase threshold below which analysis
// refuses to produce a result.
const DefaultMinimumDataPoints = 5

// Experiment is a user-defined N-of-1 experiment: a hypothesis about a single
// intervention's effect on a single self-tracked outcome, measured over a
// baseline phase and an intervention phase.
// INVARIANTS:
// - MinimumDataPoints >= 1
// - BaselineDays, InterventionDays > 0
type Experiment struct {
	ID                core.ExperimentID `json:"id"`
	Title             string            `json:"title"`
	Hypothesis        string            `json:"hypothesis"`
	InterventionName  string            `json:"intervention_name"`
	OutcomeName       string            `json:"outcome_name"`
	BaselineDays      int               `json:"baseline_days"`
	InterventionDays  int               `json:"intervention_days"`
	MinimumDataPoints int               `json:"minimum_data_points"`
	Status            Status            `json:"status"`
	CreatedAt         core.Timestamp    `json:"created_at"`
}

// New creates a draft experiment with validation
func New(title, hypothesis, interventionName, outcomeName string, baselineDays, interventionDays int) (*Experiment, error) {
	exp := &Experiment{
		ID:                core.NewExperimentID(),
		Title:             title,
		Hypothesis:        hypothesis,
		InterventionName:  interventionName,
		OutcomeName:       outcomeName,
		BaselineDays:      baselineDays,
		InterventionDays:  interventionDays,
		MinimumDataPoints: DefaultMinimumDataPoints,
		Status:            StatusDraft,
		CreatedAt:         core.Now(),
	}
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return exp, nil
}

// Validate checks experiment invariants
func (x *Experiment) Validate() error {
	if x.Title == "" {
		return fmt.Errorf("experiment title must be set")
	}
	if x.InterventionName == "" {
		return fmt.Errorf("intervention name must be set")
	}
	if x.OutcomeName == "" {
		return fmt.Errorf("outcome name must be set")
	}
	if x.BaselineDays <= 0 {
		return fmt.Errorf("baseline days must be > 0, got %d", x.BaselineDays)
	}
	if x.InterventionDays <= 0 {
		return fmt.Errorf("intervention days must be > 0, got %d", x.InterventionDays)
	}
	if x.MinimumDataPoints < 1 {
		return fmt.Errorf("minimum data points must be >= 1, got %d", x.MinimumDataPoints)
	}
	return nil
}

// Transition moves the experiment to the next lifecycle state
func (x *Experiment) Transition(next Status) error {
	if !x.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal status transition %s -> %s", x.Status, next)
	}
	x.Status = next
	return nil
}

// CurrentPhase maps the lifecycle state to the phase entries should be logged
// under, or false when the experiment is not collecting data.
func (x *Experiment) CurrentPhase() (Phase, bool) {
	switch x.Status {
	case StatusBaseline:
		return PhaseBaseline, true
	case StatusIntervention:
		return PhaseIntervention, true
	default:
		return "", false
	}
}
