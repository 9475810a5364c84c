package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/learnplan/internal/domain/providers"
)

// ResponseCacheKeyPrefix namespaces cached responses under the resource key
// space, so every resource write also drops them.
const ResponseCacheKeyPrefix = "resource:http:"

// CacheMiddleware caches successful GET responses for configured routes
type CacheMiddleware struct {
	cache  providers.CacheProvider
	routes map[string]int
}

// NewCacheMiddleware creates a response cache for the public read endpoints
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		routes: map[string]int{
			"/api/resources/search": 120,
			"/api/stats/overview":   60,
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ttl, cacheable := m.routes[r.URL.Path]
		if m.cache == nil || r.Method != http.MethodGet || !cacheable {
			next.ServeHTTP(w, r)
			return
		}

		key := responseCacheKey(r)
		if cached, err := m.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), key, recorder.body.Bytes(), ttl); err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to cache response")
			}
		}
	})
}

func responseCacheKey(r *http.Request) string {
	query := r.URL.Query()
	raw := r.URL.Path + "?" + query.Encode()
	hash := sha256.Sum256([]byte(strings.ToLower(raw)))
	return ResponseCacheKeyPrefix + hex.EncodeToString(hash[:])
}

// responseRecorder tees the response body into a buffer
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	body        bytes.Buffer
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.statusCode = statusCode
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
