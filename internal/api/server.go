// Package api provides the HTTP server for Tyria Tracker.
// It exposes the event board, the daily checklist, and profile management
// to the web dashboard.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tyria-tracker/tyria/internal/app/prices"
	appsync "github.com/tyria-tracker/tyria/internal/app/sync"
	"github.com/tyria-tracker/tyria/internal/app/tracker"
	"github.com/tyria-tracker/tyria/internal/infra/sqlite"
)

// Server is the Tyria Tracker HTTP API server.
type Server struct {
	tracker        *tracker.Tracker
	db             *sqlite.DB
	prices         *prices.Service // nil when price enrichment is disabled
	syncer         *appsync.Client // nil when remote sync is disabled
	version        string
	corsOrigins    []string
	metricsEnabled bool
	logRequests    bool
}

// NewServer creates a new API server.
func NewServer(tr *tracker.Tracker, db *sqlite.DB, version string) *Server {
	return &Server{tracker: tr, db: db, version: version}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// EnableRequestLogging logs every request (debug log level).
func (s *Server) EnableRequestLogging() { s.logRequests = true }

// SetCORSOrigins restricts browser access to the given origins.
// Empty, or any entry of "*", allows all origins.
func (s *Server) SetCORSOrigins(origins []string) { s.corsOrigins = origins }

// SetPrices attaches the price enrichment service.
func (s *Server) SetPrices(p *prices.Service) { s.prices = p }

// SetSyncer attaches the remote sync client.
func (s *Server) SetSyncer(c *appsync.Client) { s.syncer = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.logRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware(s.corsOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"message": "Tyria Tracker API",
				"version": s.version,
			})
		})
		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"version": s.version,
			})
		})

		r.Get("/events", s.handleEvents)
		r.Post("/events/toggle", s.handleEventToggle)

		r.Get("/tasks", s.handleTasks)
		r.Post("/tasks/toggle", s.handleTaskToggle)

		r.Get("/history", s.handleHistory)

		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleCreateProfile)
		r.Delete("/profiles/{name}", s.handleDeleteProfile)

		r.Post("/reset", s.handleReset)

		r.Get("/prices", s.handlePrices)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// pushCompletion uploads the profile's completion state in the background.
// Sync is an enrichment: it never blocks or fails a toggle request.
func (s *Server) pushCompletion(profile string) {
	if s.syncer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		state, err := s.db.CompletionState(profile)
		if err != nil {
			return
		}
		_ = s.syncer.PushEvents(ctx, state)
	}()
}

// pushProgress uploads the profile's checklist state in the background.
func (s *Server) pushProgress(profile string) {
	if s.syncer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		progress, err := s.db.DailyProgress(profile)
		if err != nil {
			return
		}
		_ = s.syncer.PushProgress(ctx, s.tracker.Now(), progress)
	}()
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the browser dashboard. An empty
// origin list, or any entry of "*", allows every origin; otherwise only
// configured origins are echoed back.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	any := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			any = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch origin := r.Header.Get("Origin"); {
			case any:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
