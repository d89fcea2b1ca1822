package api

import (
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/CloudAssess/internal/hermes"
	"github.com/MikeSquared-Agency/CloudAssess/internal/metrics"
	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

type AdminHandler struct {
	catalogs *CatalogHolder
	engine   *scoring.Engine
	notifier *hermes.Notifier
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func NewAdminHandler(c *CatalogHolder, e *scoring.Engine, n *hermes.Notifier, m *metrics.Recorder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{catalogs: c, engine: e, notifier: n, metrics: m, logger: logger}
}

// Recommendations handles GET /api/v1/recommendations
func (h *AdminHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Recommendations())
}

type ReloadResponse struct {
	Version    string   `json:"version"`
	Questions  int      `json:"questions"`
	Categories []string `json:"categories"`
	Fallback   []string `json:"fallback_categories,omitempty"`
}

// ReloadCatalog handles POST /api/v1/catalog/reload
func (h *AdminHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Reload(r.Context())
	if err != nil {
		h.logger.Error("catalog reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.SetCatalog(c)
	h.notifier.CatalogLoaded(r.Context(), c)
	h.logger.Info("catalog reloaded", "version", c.Version(), "questions", c.Len())

	uncovered := h.engine.Recommendations().Uncovered(c.Categories())
	if len(uncovered) > 0 {
		h.logger.Warn("categories use fallback recommendations", "categories", uncovered)
	}

	writeJSON(w, http.StatusOK, ReloadResponse{
		Version:    c.Version(),
		Questions:  c.Len(),
		Categories: c.Categories(),
		Fallback:   uncovered,
	})
}
