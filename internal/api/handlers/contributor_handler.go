package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/learnplan/internal/api/middleware"
	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// ContributorAccounts is the account surface used by the handler
type ContributorAccounts interface {
	Register(ctx context.Context, req entities.RegisterRequest) (*entities.Contributor, error)
	Login(ctx context.Context, req entities.LoginRequest) (*entities.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, contributorID string) (*entities.Contributor, error)
}

// ContributorHandler handles contributor registration and sessions
type ContributorHandler struct {
	accounts ContributorAccounts
}

// NewContributorHandler creates a new contributor handler
func NewContributorHandler(accounts ContributorAccounts) *ContributorHandler {
	return &ContributorHandler{accounts: accounts}
}

type loginResponse struct {
	SessionID   string             `json:"session_id"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Contributor contributorSummary `json:"contributor"`
}

type contributorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register handles POST /api/contributor/register
func (h *ContributorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	contributor, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, contributor)
}

// Login handles POST /api/contributor/login
func (h *ContributorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		Contributor: contributorSummary{
			ID:    session.ContributorID,
			Name:  session.ContributorName,
			Email: session.Email,
		},
	})
}

// Logout handles POST /api/contributor/logout
func (h *ContributorHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context(), middleware.SessionToken(r)); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Profile handles GET /api/contributor/profile
func (h *ContributorHandler) Profile(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	contributor, err := h.accounts.Profile(r.Context(), session.ContributorID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, contributor)
}
