package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// CatalogAdmin is the operator surface over the catalog
type CatalogAdmin interface {
	AdminList(ctx context.Context, status string, limit, offset int) ([]*entities.Resource, error)
	UpdatePriority(ctx context.Context, id string, priority float64) error
	UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error
}

// AdminHandler handles operator requests. Routes are guarded by the admin token middleware.
type AdminHandler struct {
	catalog CatalogAdmin
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(catalog CatalogAdmin) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

type priorityRequest struct {
	Priority *float64 `json:"priority_score"`
}

type statusRequest struct {
	Status entities.ResourceStatus `json:"status"`
}

// ListResources handles GET /api/admin/resources?status=&limit=&offset=
func (h *AdminHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	resources, err := h.catalog.AdminList(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"resources": resources,
		"count":     len(resources),
	})
}

// UpdatePriority handles PUT /api/admin/resources/{id}/priority
func (h *AdminHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if err := decodeJSON(r, &req); err != nil || req.Priority == nil {
		respondWithError(w, http.StatusBadRequest, "priority_score is required")
		return
	}

	id := r.PathValue("id")
	if err := h.catalog.UpdatePriority(r.Context(), id, *req.Priority); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":             id,
		"priority_score": *req.Priority,
	})
}

// UpdateStatus handles PUT /api/admin/resources/{id}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	if err := h.catalog.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"id":     id,
		"status": string(req.Status),
	})
}
