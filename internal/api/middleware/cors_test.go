package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/learnplan/internal/api/middleware"
)

func TestCORSMiddleware(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantOrigin string
		wantCode   int
		wantNext   bool
	}{
		{"wildcard by default", nil, "https://app.example", http.MethodGet, "*", http.StatusOK, true},
		{"listed origin echoed", []string{"https://app.example"}, "https://app.example", http.MethodGet, "https://app.example", http.StatusOK, true},
		{"unlisted origin", []string{"https://app.example"}, "https://evil.example", http.MethodGet, "", http.StatusOK, true},
		{"preflight", []string{"https://app.example"}, "https://app.example", http.MethodOptions, "https://app.example", http.StatusNoContent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(tt.method, "/api/ai/recommend", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			middleware.CORSMiddleware(tt.allowed)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.SessionHeader)
			assert.Equal(t, tt.wantNext, reached)
		})
	}
}
