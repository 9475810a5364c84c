package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/learnplan/internal/domain/entities"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

// SessionHeader is the alternative to a bearer token
const SessionHeader = "X-Session-ID"

// AdminTokenHeader carries the operator token for admin routes
const AdminTokenHeader = "X-Admin-Token"

type contextKey string

const sessionContextKey contextKey = "contributor_session"

// SessionVerifier resolves a session id to a live session
type SessionVerifier interface {
	VerifySession(ctx context.Context, sessionID string) (*entities.Session, error)
}

// SessionToken extracts the session id from the Authorization bearer token
// or the X-Session-ID header
func SessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

// WithSession stores session in ctx
func WithSession(ctx context.Context, session *entities.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the session stored by RequireSession
func SessionFromContext(ctx context.Context) (*entities.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*entities.Session)
	return session, ok && session != nil
}

// RequireSession rejects requests without a valid contributor session
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := verifier.VerifySession(r.Context(), SessionToken(r))
			if err != nil {
				writeError(w, apperrors.HTTPStatus(err), apperrors.PublicMessage(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireAdmin guards operator routes with a shared token. An empty token
// disables the routes entirely.
func RequireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusForbidden, "admin API is disabled")
				return
			}
			provided := r.Header.Get(AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
