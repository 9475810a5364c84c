package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/learnplan/internal/api/handlers"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

type stubCatalogAdmin struct {
	status   string
	limit    int
	offset   int
	id       string
	priority float64
	newState entities.ResourceStatus
	calls    int
	err      error
}

func (s *stubCatalogAdmin) AdminList(ctx context.Context, status string, limit, offset int) ([]*entities.Resource, error) {
	s.status, s.limit, s.offset = status, limit, offset
	return []*entities.Resource{{ID: "r1"}}, s.err
}

func (s *stubCatalogAdmin) UpdatePriority(ctx context.Context, id string, priority float64) error {
	s.calls++
	s.id, s.priority = id, priority
	return s.err
}

func (s *stubCatalogAdmin) UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error {
	s.calls++
	s.id, s.newState = id, status
	return s.err
}

func TestAdminHandler_ListResources(t *testing.T) {
	stub := &stubCatalogAdmin{}
	handler := handlers.NewAdminHandler(stub)

	w := httptest.NewRecorder()
	handler.ListResources(w, httptest.NewRequest(http.MethodGet, "/api/admin/resources?status=pending_review&limit=20&offset=40", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending_review", stub.status)
	assert.Equal(t, 20, stub.limit)
	assert.Equal(t, 40, stub.offset)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestAdminHandler_UpdatePriority(t *testing.T) {
	stub := &stubCatalogAdmin{}
	handler := handlers.NewAdminHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/resources/r1/priority", strings.NewReader(`{"priority_score":0}`))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.UpdatePriority(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", stub.id)
	assert.Equal(t, 0.0, stub.priority)
	assert.Equal(t, 1, stub.calls)
}

func TestAdminHandler_UpdatePriority_Missing(t *testing.T) {
	stub := &stubCatalogAdmin{}
	handler := handlers.NewAdminHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/resources/r1/priority", strings.NewReader(`{}`))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.UpdatePriority(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "priority_score is required")
	assert.Zero(t, stub.calls)
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ok", nil, http.StatusOK},
		{"invalid status", apperrors.NewValidationError(`unsupported status "gone"`), http.StatusBadRequest},
		{"missing", apperrors.NewNotFoundError("resource not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubCatalogAdmin{err: tt.err}
			handler := handlers.NewAdminHandler(stub)

			req := httptest.NewRequest(http.MethodPut, "/api/admin/resources/r1/status", strings.NewReader(`{"status":"archived"}`))
			req.SetPathValue("id", "r1")
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, entities.ResourceStatusArchived, stub.newState)
		})
	}
}
