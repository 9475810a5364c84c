package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/learnplan/internal/api/middleware"
)

func TestCompression(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resources":[]}`))
	})
	handler := middleware.Compression(next)

	req := httptest.NewRequest(http.MethodGet, "/api/resources/search", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	reader, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, `{"resources":[]}`, string(body))

	plain := httptest.NewRecorder()
	handler.ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/api/resources/search", nil))
	assert.Empty(t, plain.Header().Get("Content-Encoding"))
	assert.Equal(t, `{"resources":[]}`, plain.Body.String())
}

func TestCacheControl(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/resources/search", "public, max-age=60, must-revalidate"},
		{http.MethodGet, "/api/stats/overview", "public, max-age=30, must-revalidate"},
		{http.MethodGet, "/api/resources/my", "private, no-cache"},
		{http.MethodPost, "/api/ai/generate-plan", "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			middleware.CacheControl(next).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Header().Get("Cache-Control"))
		})
	}
}
