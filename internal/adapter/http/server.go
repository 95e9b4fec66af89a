// Package adapthttp is the driving HTTP adapter: it routes JSON requests to
// the application services behind bearer authentication.
package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"weighttracker/internal/app"
	"weighttracker/internal/domain"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weights *app.WeightService
	goals   *app.GoalService
	authn   domain.Authenticator
	log     *zap.Logger
	origins []string
	metrics http.Handler
}

// New creates a Server wired to the given application services. Protected
// routes resolve the caller through authn.
func New(ws *app.WeightService, gs *app.GoalService, authn domain.Authenticator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		weights: ws,
		goals:   gs,
		authn:   authn,
		log:     log,
		origins: []string{"*"},
		metrics: promhttp.Handler(),
	}
}

// WithCORS restricts cross-origin requests to origins. The default allows any.
func (s *Server) WithCORS(origins []string) *Server {
	if len(origins) > 0 {
		s.origins = origins
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.loggingMiddleware)
	r.Use(s.instrument)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, msgNotFound)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/test", s.handleTest)

		r.Post("/weights", s.handleWeightCreate)
		r.Get("/weights", s.handleWeightList)
		r.Put("/weights/{id}", s.handleWeightUpdate)
		r.Delete("/weights/{id}", s.handleWeightDelete)

		r.Get("/goal", s.handleGoalGet)
		r.Put("/goal", s.handleGoalSet)
		r.Delete("/goal", s.handleGoalDelete)
	})

	return r
}
