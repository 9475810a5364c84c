package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/learnplan/internal/api/middleware"
	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// ResourceManager is the catalog surface used by contributor and public routes
type ResourceManager interface {
	Add(ctx context.Context, session *entities.Session, in entities.ResourceInput) (*entities.Resource, error)
	Update(ctx context.Context, session *entities.Session, id string, in entities.ResourceInput) (*entities.Resource, error)
	Delete(ctx context.Context, session *entities.Session, id string) error
	MyResources(ctx context.Context, session *entities.Session) ([]*entities.Resource, error)
	Search(ctx context.Context, query string, limit int) ([]*entities.Resource, error)
	Stats(ctx context.Context) (*entities.CatalogStats, error)
}

// ResourceHandler handles catalog HTTP requests
type ResourceHandler struct {
	resources ResourceManager
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resources ResourceManager) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// AddResource handles POST /api/resources
func (h *ResourceHandler) AddResource(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var in entities.ResourceInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resource, err := h.resources.Add(r.Context(), session, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, resource)
}

// UpdateResource handles PUT /api/resources/{id}
func (h *ResourceHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var in entities.ResourceInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resource, err := h.resources.Update(r.Context(), session, r.PathValue("id"), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resource)
}

// DeleteResource handles DELETE /api/resources/{id}
func (h *ResourceHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	if err := h.resources.Delete(r.Context(), session, r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyResources handles GET /api/resources/my
func (h *ResourceHandler) MyResources(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	resources, err := h.resources.MyResources(r.Context(), session)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"resources": resources,
		"count":     len(resources),
	})
}

// SearchResources handles GET /api/resources/search?q=&limit=
func (h *ResourceHandler) SearchResources(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	query := r.URL.Query().Get("q")
	resources, err := h.resources.Search(r.Context(), query, limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":     query,
		"resources": resources,
		"count":     len(resources),
	})
}

// StatsOverview handles GET /api/stats/overview
func (h *ResourceHandler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.resources.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
