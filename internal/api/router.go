package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// healthCheckTimeout bounds each dependency check of /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(middleware.RequestSize(maxRequestBodySize))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/metrics", s.handleMetrics)

		r.Get("/state", s.handleGetState)
		r.Post("/state", s.handleSetState)

		r.Route("/timeline", func(r chi.Router) {
			r.Get("/", s.handleGetTimeline)
			r.Put("/", s.handlePutTimeline)
			r.Post("/keyframes", s.handleAddKeyframe)
			r.Delete("/keyframes", s.handleDeleteKeyframes)
			r.Patch("/keyframes/{index}", s.handleUpdateKeyframe)
			r.Post("/easing", s.handleSetEasing)
			r.Post("/distribute", s.handleDistribute)
			r.Post("/reverse", s.handleReverse)
			r.Post("/paste", s.handlePaste)
			r.Get("/templates", s.handleListTemplates)
			r.Post("/template/{name}", s.handleApplyTemplate)
		})

		r.Route("/timelines", func(r chi.Router) {
			r.Get("/", s.handleListSavedTimelines)
			r.Post("/", s.handleSaveTimeline)
			r.Post("/{name}/load", s.handleLoadTimeline)
			r.Delete("/{name}", s.handleDeleteSavedTimeline)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleGetHistory)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
		})

		r.Post("/play", s.handlePlay)
		r.Delete("/play", s.handleStopPlay)
		r.Post("/scrub", s.handleScrub)
		r.Post("/flicker", s.handleFlicker)
		r.Delete("/flicker", s.handleStopFlicker)
		r.Post("/transition", s.handleTransition)
		r.Post("/environment", s.handleApplyEnvironment)
		r.Post("/sequence", s.handleRunSequence)
		r.Delete("/sequence", s.handleStopSequence)
		r.Post("/stop", s.handleStopAll)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/flicker", s.handleListFlickerPresets)

			r.Route("/environments", func(r chi.Router) {
				r.Get("/", s.handleListEnvironments)
				r.Post("/", s.handleCreateEnvironment)
				r.Get("/{id}", s.handleGetEnvironment)
				r.Put("/{id}", s.handleUpdateEnvironment)
				r.Delete("/{id}", s.handleDeleteEnvironment)
			})

			r.Route("/animations", func(r chi.Router) {
				r.Get("/", s.handleListAnimations)
				r.Post("/", s.handleCreateAnimation)
				r.Get("/{id}", s.handleGetAnimation)
				r.Delete("/{id}", s.handleDeleteAnimation)
			})

			r.Route("/sequences", func(r chi.Router) {
				r.Get("/", s.handleListSequences)
				r.Post("/", s.handleCreateSequence)
				r.Get("/{id}", s.handleGetSequence)
				r.Put("/{id}", s.handleUpdateSequence)
				r.Delete("/{id}", s.handleDeleteSequence)
			})
		})

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth reports the server and each registered dependency. A
// failing dependency degrades the status but still answers 200, since the
// studio keeps animating without it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := make(map[string]string, len(s.checks))
	for name, c := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := c.HealthCheck(ctx)
		cancel()
		if err != nil {
			status = "degraded"
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"version": s.version,
		"checks":  checks,
	})
}
