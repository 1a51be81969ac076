package ui

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nof1/domain/core"
	"nof1/domain/experiment"
	"nof1/internal/errors"
	"nof1/internal/report"
)

// createExperimentRequest is the payload for creating an experiment
type createExperimentRequest struct {
	Title             string `json:"title"`
	Hypothesis        string `json:"hypothesis"`
	InterventionName  string `json:"intervention_name"`
	OutcomeName       string `json:"outcome_name"`
	BaselineDays      int    `json:"baseline_days"`
	InterventionDays  int    `json:"intervention_days"`
	MinimumDataPoints int    `json:"minimum_data_points,omitempty"`
}

func (a *App) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	var req createExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errors.InvalidInput("invalid request body"))
		return
	}

	exp, err := experiment.New(req.Title, req.Hypothesis, req.InterventionName, req.OutcomeName,
		req.BaselineDays, req.InterventionDays)
	if err != nil {
		a.writeError(w, errors.Wrap(err, "invalid experiment"))
		return
	}
	if req.MinimumDataPoints > 0 {
		exp.MinimumDataPoints = req.MinimumDataPoints
	}

	if err := a.experiments.Create(r.Context(), exp); err != nil {
		a.writeError(w, errors.Wrap(err, "failed to create experiment"))
		return
	}
	a.writeJSON(w, http.StatusCreated, exp)
}

func (a *App) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	experiments, err := a.experiments.List(r.Context(), limit)
	if err != nil {
		a.writeError(w, errors.Wrap(err, "failed to list experiments"))
		return
	}
	a.writeJSON(w, http.StatusOK, experiments)
}

func (a *App) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
	exp, err := a.experiments.GetByID(r.Context(), a.experimentID(r))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			a.writeError(w, errors.NotFound("experiment"))
			return
		}
		a.writeError(w, errors.Wrap(err, "failed to load experiment"))
		return
	}
	a.writeJSON(w, http.StatusOK, exp)
}

// logEntryRequest is the payload for a daily check-in
type logEntryRequest struct {
	Date                  string `json:"date"`
	Phase                 string `json:"phase"`
	OutcomeValue          *int   `json:"outcome_value,omitempty"`
	InterventionApplied   *bool  `json:"intervention_applied,omitempty"`
	HasConfoundingFactors bool   `json:"has_confounding_factors"`
}

func (a *App) handleLogEntry(w http.ResponseWriter, r *http.Request) {
	var req logEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errors.InvalidInput("invalid request body"))
		return
	}

	date, err := core.ParseDay(req.Date)
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	entry := &experiment.Entry{
		ID:                    core.NewEntryID(),
		ExperimentID:          a.experimentID(r),
		Date:                  date,
		Phase:                 experiment.Phase(req.Phase),
		OutcomeValue:          req.OutcomeValue,
		InterventionApplied:   req.InterventionApplied,
		HasConfoundingFactors: req.HasConfoundingFactors,
		CreatedAt:             core.Now(),
	}

	if err := a.service.LogEntry(r.Context(), entry); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, entry)
}

func (a *App) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errors.InvalidInput("invalid request body"))
		return
	}

	if err := a.service.Transition(r.Context(), a.experimentID(r), experiment.Status(req.Status)); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	outcome, err := a.service.Analyze(r.Context(), a.experimentID(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	// Insufficient data is a first-class outcome, not an error status.
	a.writeJSON(w, http.StatusOK, outcome)
}

func (a *App) handleCompleteAndAnalyze(w http.ResponseWriter, r *http.Request) {
	outcome, err := a.service.CompleteAndAnalyze(r.Context(), a.experimentID(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, outcome)
}

func (a *App) handleGetResults(w http.ResponseWriter, r *http.Request) {
	res, err := a.experiments.GetResults(r.Context(), a.experimentID(r))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			a.writeError(w, errors.NotFound("results"))
			return
		}
		a.writeError(w, errors.Wrap(err, "failed to load results"))
		return
	}
	a.writeJSON(w, http.StatusOK, res)
}

func (a *App) handleQuality(w http.ResponseWriter, r *http.Request) {
	qualityReport, err := a.service.Quality(r.Context(), a.experimentID(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, qualityReport)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	id := a.experimentID(r)

	exp, err := a.experiments.GetByID(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			a.writeError(w, errors.NotFound("experiment"))
			return
		}
		a.writeError(w, errors.Wrap(err, "failed to load experiment"))
		return
	}

	res, err := a.experiments.GetResults(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			a.writeError(w, errors.NotFound("results"))
			return
		}
		a.writeError(w, errors.Wrap(err, "failed to load results"))
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.Render(exp, res)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.RenderHTML(exp, res))
}

// Helpers

func (a *App) experimentID(r *http.Request) core.ExperimentID {
	return core.ExperimentID(chi.URLParam(r, "experimentID"))
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeValidationError, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	}

	a.logger.Warn("request failed: %v", err)
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
