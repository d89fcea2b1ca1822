package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/CloudAssess/internal/hermes"
	"github.com/MikeSquared-Agency/CloudAssess/internal/metrics"
	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

// RouterConfig groups the dependencies of the public API.
type RouterConfig struct {
	Catalogs           *CatalogHolder
	Engine             *scoring.Engine
	Notifier           *hermes.Notifier
	Metrics            *metrics.Recorder
	AdminToken         string
	RateLimitPerMinute int
	Logger             *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

	catalog := NewCatalogHandler(cfg.Catalogs)
	assessments := NewAssessmentsHandler(cfg.Catalogs, cfg.Engine, cfg.Notifier, cfg.Metrics, cfg.Logger)
	admin := NewAdminHandler(cfg.Catalogs, cfg.Engine, cfg.Notifier, cfg.Metrics, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", catalog.Get)
		r.Get("/catalog/categories", catalog.Categories)
		r.Get("/catalog/categories/{category}/questions", catalog.Questions)

		r.Post("/assessments", assessments.Create)
		r.Post("/assessments/report", assessments.Report)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Get("/recommendations", admin.Recommendations)
			r.Post("/catalog/reload", admin.ReloadCatalog)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
