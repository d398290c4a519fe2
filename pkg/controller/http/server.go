package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
)

// UseCases groups the application operations served over HTTP
type UseCases struct {
	sessions   *usecase.SessionUseCase
	profiles   *usecase.ProfileUseCase
	dashboard  *usecase.DashboardUseCase
	liveness   *usecase.Liveness
	classifier interfaces.Classifier
}

// NewUseCases creates a UseCases. classifier may be nil.
func NewUseCases(
	sessions *usecase.SessionUseCase,
	profiles *usecase.ProfileUseCase,
	dashboard *usecase.DashboardUseCase,
	liveness *usecase.Liveness,
	classifier interfaces.Classifier,
) *UseCases {
	return &UseCases{
		sessions:   sessions,
		profiles:   profiles,
		dashboard:  dashboard,
		liveness:   liveness,
		classifier: classifier,
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router   chi.Router
	useCases *UseCases
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, useCases *UseCases, m *metrics.Service) *Server {
	router := chi.NewRouter()
	h := &handler{uc: useCases}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(MetricsMiddleware(m))
	router.Use(middleware.Recoverer)
	router.Use(CORS)

	router.Get("/health", handleHealth)
	router.Handle("/metrics", m.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/liveness", h.getLiveness)
		r.Post("/sessions", h.openSession)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(useCases.sessions))

			r.Get("/session", h.getSession)
			r.Delete("/session", h.closeSession)

			r.Route("/incidents", func(r chi.Router) {
				r.Get("/", h.listIncidents)
				r.Post("/", h.createIncident)
				r.Post("/{id}/status", h.transitionIncident)
				r.Put("/{id}/note", h.saveNote)
				r.Get("/{id}/advisory", h.getAdvisory)
			})

			r.Post("/classify", h.classify)
			r.Get("/dashboard", h.getDashboard)

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/", h.listProfiles)
				r.Post("/", h.createProfile)
				r.Post("/{id}/toggle", h.toggleProfile)
				r.Delete("/{id}", h.deleteProfile)
			})
		})
	})

	ctxlog.From(ctx).Debug("HTTP routes registered", "addr", addr)

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:   router,
		useCases: useCases,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "buddyguard",
	})
}
