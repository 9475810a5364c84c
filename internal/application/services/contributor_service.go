package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
	"github.com/zatekoja/learnplan/pkg/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionIDBytes    = 32
	defaultSessionTTL = 24 * time.Hour
)

// errInvalidCredentials is returned for unknown emails and wrong passwords alike
var errInvalidCredentials = apperrors.NewUnauthorizedError("invalid email or password")

// ContributorService handles contributor accounts and sessions
type ContributorService struct {
	contributors repositories.ContributorRepository
	sessions     providers.SessionStore
	sessionTTL   time.Duration
	now          func() time.Time
}

// NewContributorService creates a new contributor service
func NewContributorService(contributors repositories.ContributorRepository, sessions providers.SessionStore, sessionTTL time.Duration) *ContributorService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &ContributorService{
		contributors: contributors,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a contributor account. The email is stored lower-cased.
func (s *ContributorService) Register(ctx context.Context, req entities.RegisterRequest) (*entities.Contributor, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr.ToAppError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	contributor := &entities.Contributor{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Expertise:    req.Expertise,
		Organization: req.Organization,
		Bio:          req.Bio,
		CreatedAt:    s.now(),
	}
	if contributor.Expertise == nil {
		contributor.Expertise = []string{}
	}

	if err := s.contributors.Create(ctx, contributor); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("contributor_id", contributor.ID).
		Msg("contributor registered")
	return contributor, nil
}

// Login verifies credentials and opens a new session
func (s *ContributorService) Login(ctx context.Context, req entities.LoginRequest) (*entities.Session, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr.ToAppError()
	}

	contributor, err := s.contributors.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(contributor.PasswordHash), []byte(req.Password)) != nil {
		return nil, errInvalidCredentials
	}

	id, err := newSessionID()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create session", err)
	}

	now := s.now()
	session := &entities.Session{
		ID:              id,
		ContributorID:   contributor.ID,
		ContributorName: contributor.Name,
		Email:           contributor.Email,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if err := s.contributors.UpdateLastLogin(ctx, contributor.ID, now); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("contributor_id", contributor.ID).
			Msg("failed to record last login")
	}
	return session, nil
}

// Logout closes a session. Unknown sessions are ignored.
func (s *ContributorService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// VerifySession resolves a session id to a live session
func (s *ContributorService) VerifySession(ctx context.Context, sessionID string) (*entities.Session, error) {
	if sessionID == "" {
		return nil, apperrors.NewUnauthorizedError("missing session")
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorizedError("invalid or expired session")
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, apperrors.NewUnauthorizedError("invalid or expired session")
	}
	return session, nil
}

// Profile returns the contributor behind a session
func (s *ContributorService) Profile(ctx context.Context, contributorID string) (*entities.Contributor, error) {
	return s.contributors.GetByID(ctx, contributorID)
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
