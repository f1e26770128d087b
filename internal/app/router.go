package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scro-cloud/scro/internal/accounts"
	"github.com/scro-cloud/scro/internal/auth"
	"github.com/scro-cloud/scro/internal/catalog"
	"github.com/scro-cloud/scro/internal/guard"
	"github.com/scro-cloud/scro/internal/observability"
	"github.com/scro-cloud/scro/internal/session"
	"github.com/scro-cloud/scro/internal/telemetry"
	"github.com/scro-cloud/scro/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *session.Manager
	CSRFManager      *session.CSRFManager
	AuthHandler      *auth.Handler
	TelemetryHandler *telemetry.Handler
	CatalogHandler   *catalog.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth())
			if params.TelemetryHandler != nil {
				r.Route("/telemetry", params.TelemetryHandler.MountRoutes)
			}
			if params.CatalogHandler != nil {
				r.Route("/catalog", func(r chi.Router) {
					params.CatalogHandler.MountRoutes(r)
					r.With(guard.RequireRole(accounts.RoleAdmin)).
						Post("/vms", params.CatalogHandler.CreateVM)
				})
			}
		})

		if params.JobHandler != nil {
			r.With(guard.RequireRole(accounts.RoleAdmin)).
				Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
