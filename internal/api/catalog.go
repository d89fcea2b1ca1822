package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
	"github.com/MikeSquared-Agency/CloudAssess/internal/store"
)

// CatalogHolder keeps the catalog currently served. Each request reads it
// once, so an evaluation never mixes two catalog versions.
type CatalogHolder struct {
	store   store.CatalogStore
	current atomic.Pointer[questionnaire.Catalog]
}

// NewCatalogHolder loads the initial catalog from s.
func NewCatalogHolder(ctx context.Context, s store.CatalogStore) (*CatalogHolder, error) {
	h := &CatalogHolder{store: s}
	if _, err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *CatalogHolder) Current() *questionnaire.Catalog {
	return h.current.Load()
}

// Reload reads the catalog from the store and swaps it in. On error the
// previous catalog stays active.
func (h *CatalogHolder) Reload(ctx context.Context) (*questionnaire.Catalog, error) {
	c, err := h.store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	h.current.Store(c)
	return c, nil
}

type CatalogHandler struct {
	catalogs *CatalogHolder
}

func NewCatalogHandler(c *CatalogHolder) *CatalogHandler {
	return &CatalogHandler{catalogs: c}
}

type CatalogResponse struct {
	Version    string                   `json:"version"`
	Categories []string                 `json:"categories"`
	Questions  []questionnaire.Question `json:"questions"`
}

// Get handles GET /api/v1/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.catalogs.Current()
	writeJSON(w, http.StatusOK, CatalogResponse{
		Version:    c.Version(),
		Categories: c.Categories(),
		Questions:  c.Questions(),
	})
}

// Categories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogs.Current().Categories())
}

// Questions handles GET /api/v1/catalog/categories/{category}/questions
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	// chi matches on RawPath when it is set, leaving the param escaped.
	if r.URL.RawPath != "" {
		if v, err := url.PathUnescape(category); err == nil {
			category = v
		}
	}
	qs := h.catalogs.Current().QuestionsInCategory(category)
	if len(qs) == 0 {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, qs)
}
