// Package ui exposes the HTTP API for experiments, daily entries, analysis,
// quality reports and rendered result reports.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nof1/app"
	"nof1/internal"
	"nof1/ports"
)

// App represents the HTTP application
type App struct {
	router      *chi.Mux
	service     *app.AnalysisService
	experiments ports.ExperimentRepository
	logger      *internal.Logger
}

// NewApp creates a new HTTP application
func NewApp(service *app.AnalysisService, experiments ports.ExperimentRepository, logger *internal.Logger) *App {
	a := &App{
		router:      chi.NewRouter(),
		service:     service,
		experiments: experiments,
		logger:      logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Route("/api/experiments", func(r chi.Router) {
		r.Post("/", a.handleCreateExperiment)
		r.Get("/", a.handleListExperiments)

		r.Route("/{experimentID}", func(r chi.Router) {
			r.Get("/", a.handleGetExperiment)
			r.Post("/entries", a.handleLogEntry)
			r.Post("/transition", a.handleTransition)
			r.Post("/analyze", a.handleAnalyze)
			r.Post("/complete", a.handleCompleteAndAnalyze)
			r.Get("/results", a.handleGetResults)
			r.Get("/quality", a.handleQuality)
			r.Get("/report", a.handleReport)
		})
	})
}

// Router returns the configured router
func (a *App) Router() http.Handler {
	return a.router
}
