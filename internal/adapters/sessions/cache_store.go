package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

const sessionKeyPrefix = "session:"

// CacheStore keeps sessions in a CacheProvider, letting the cache expire them
type CacheStore struct {
	cache providers.CacheProvider
	now   func() time.Time
}

// NewCacheStore creates a session store backed by cache
func NewCacheStore(cache providers.CacheProvider) providers.SessionStore {
	return &CacheStore{cache: cache, now: time.Now}
}

func sessionKey(id string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, id)
}

// Save stores a session until its expiry
func (s *CacheStore) Save(ctx context.Context, session *entities.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return apperrors.NewValidationError("session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session", err)
	}
	seconds := int(math.Ceil(ttl.Seconds()))
	if err := s.cache.Set(ctx, sessionKey(session.ID), data, seconds); err != nil {
		return apperrors.NewInternalError("failed to store session", err)
	}
	return nil
}

// Get returns a live session
func (s *CacheStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	data, err := s.cache.Get(ctx, sessionKey(id))
	if errors.Is(err, providers.ErrCacheMiss) {
		return nil, apperrors.NewNotFoundError("session not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session", err)
	}
	if session.Expired(s.now()) {
		return nil, apperrors.NewNotFoundError("session not found")
	}
	return &session, nil
}

// Delete removes a session
func (s *CacheStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, sessionKey(id)); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	return nil
}
