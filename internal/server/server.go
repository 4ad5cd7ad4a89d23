// Package server exposes the scheduling and funnel engine over HTTP for the
// dashboard: pipeline configuration, plan generation, occupancy counts, and
// health reports as JSON.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/schedule"
	"github.com/greyamp/alignops/internal/store"
)

// Options configures the HTTP server.
type Options struct {
	// BufferPct is passed through to the planner for generate requests.
	BufferPct float64
	// RatePerSecond and RateBurst bound request throughput across all
	// clients. Zero RatePerSecond disables limiting.
	RatePerSecond float64
	RateBurst     int
}

// Server serves the HTTP API over a store.
type Server struct {
	store   store.Store
	planner *schedule.Planner
	limiter *rate.Limiter
}

// New creates a server over the given store.
func New(st store.Store, opts Options) *Server {
	s := &Server{
		store:   st,
		planner: schedule.NewPlanner(st),
	}
	s.planner.BufferPct = opts.BufferPct
	if opts.RatePerSecond > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return s
}

// Router builds the chi router with all API routes mounted under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.throttle)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/pipelines", func(r chi.Router) {
			r.Get("/", s.handleListPipelines)
			r.Post("/", s.handleCreatePipeline)
			r.Get("/{pipelineID}", s.handleGetPipeline)
			r.Get("/{pipelineID}/stages", s.handleListStages)
			r.Post("/{pipelineID}/stages", s.handleAddStage)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handleListPlans)
			r.Post("/", s.handleCreatePlan)
			r.Get("/{planID}", s.handleGetPlan)
			r.Get("/{planID}/roles", s.handleListPlanRoles)
			r.Put("/{planID}/roles", s.handleUpsertPlanRole)
			r.Post("/{planID}/generate", s.handleGenerate)
			r.Get("/{planID}/report", s.handlePlanReport)
		})

		r.Route("/funnel", func(r chi.Router) {
			r.Get("/count", s.handleFunnelCount)
			r.Get("/exited", s.handleFunnelExited)
			r.Get("/quality", s.handleFunnelQuality)
		})

		r.Route("/cycletime", func(r chi.Router) {
			r.Get("/transitions", s.handleTransitions)
			r.Get("/bottlenecks", s.handleBottlenecks)
		})

		r.Get("/candidates", s.handleListCandidates)
		r.Get("/summary", s.handleSummary)
	})

	return r
}

// throttle rejects requests beyond the configured rate with 429.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors onto HTTP status codes.
func fail(w http.ResponseWriter, err error) {
	switch {
	case model.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case model.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("server: request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
