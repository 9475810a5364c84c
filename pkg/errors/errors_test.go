package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"conflict", NewConflictError("dup"), http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("who"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("no"), http.StatusForbidden},
		{"external", NewExternalError("down", fmt.Errorf("eof")), http.StatusBadGateway},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFoundError("inner")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := NewInternalError("failed to query", fmt.Errorf("pq: password authentication failed"))
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "resource not found", PublicMessage(NewNotFoundError("resource not found")))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("cause")
	err := NewInternalError("wrapper", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL: wrapper: cause", err.Error())
}
