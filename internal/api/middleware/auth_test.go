package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/learnplan/internal/api/middleware"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

type stubVerifier struct {
	sessions map[string]*entities.Session
	seen     string
}

func (v *stubVerifier) VerifySession(ctx context.Context, sessionID string) (*entities.Session, error) {
	v.seen = sessionID
	if session, ok := v.sessions[sessionID]; ok {
		return session, nil
	}
	return nil, apperrors.NewUnauthorizedError("invalid or expired session")
}

func TestSessionToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"bearer", map[string]string{"Authorization": "Bearer abc"}, "abc"},
		{"lowercase scheme", map[string]string{"Authorization": "bearer  abc "}, "abc"},
		{"session header", map[string]string{middleware.SessionHeader: "xyz"}, "xyz"},
		{"bearer wins", map[string]string{"Authorization": "Bearer abc", middleware.SessionHeader: "xyz"}, "abc"},
		{"basic auth ignored", map[string]string{"Authorization": "Basic Zm9vOmJhcg=="}, ""},
		{"none", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, middleware.SessionToken(req))
		})
	}
}

func TestRequireSession(t *testing.T) {
	verifier := &stubVerifier{sessions: map[string]*entities.Session{
		"good": {ID: "good", ContributorID: "c1"},
	}}

	var got *entities.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireSession(verifier)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/contributor/profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, got) {
		assert.Equal(t, "c1", got.ContributorID)
	}

	got = nil
	req = httptest.NewRequest(http.MethodGet, "/api/contributor/profile", nil)
	req.Header.Set(middleware.SessionHeader, "stale")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired session")
	assert.Equal(t, "stale", verifier.seen)
	assert.Nil(t, got)
}

func TestSessionFromContext_Empty(t *testing.T) {
	_, ok := middleware.SessionFromContext(context.Background())
	assert.False(t, ok)

	_, ok = middleware.SessionFromContext(middleware.WithSession(context.Background(), nil))
	assert.False(t, ok)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		configured string
		provided   string
		want       int
	}{
		{"disabled", "", "anything", http.StatusForbidden},
		{"missing token", "s3cret", "", http.StatusUnauthorized},
		{"wrong token", "s3cret", "guess", http.StatusUnauthorized},
		{"valid token", "s3cret", "s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/resources", nil)
			if tt.provided != "" {
				req.Header.Set(middleware.AdminTokenHeader, tt.provided)
			}
			w := httptest.NewRecorder()

			middleware.RequireAdmin(tt.configured)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
