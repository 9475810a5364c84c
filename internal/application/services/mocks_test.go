package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

// MockResourceRepository is a testify mock of repositories.ResourceRepository
type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Create(ctx context.Context, resource *entities.Resource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id string) (*entities.Resource, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*entities.Resource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResourceRepository) Update(ctx context.Context, resource *entities.Resource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

func (m *MockResourceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResourceRepository) List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	args := m.Called(ctx, filter)
	if r := args.Get(0); r != nil {
		return r.([]*entities.Resource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResourceRepository) Search(ctx context.Context, query string, limit int) ([]*entities.Resource, error) {
	args := m.Called(ctx, query, limit)
	if r := args.Get(0); r != nil {
		return r.([]*entities.Resource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResourceRepository) UpdatePriority(ctx context.Context, id string, priority float64) error {
	args := m.Called(ctx, id, priority)
	return args.Error(0)
}

func (m *MockResourceRepository) UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockResourceRepository) Stats(ctx context.Context) (*entities.CatalogStats, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*entities.CatalogStats), args.Error(1)
	}
	return nil, args.Error(1)
}

// stubSuggestionProvider returns a fixed result and records prompts
type stubSuggestionProvider struct {
	mu      sync.Mutex
	result  providers.SuggestionResult
	prompts []string
	panics  bool
}

func (s *stubSuggestionProvider) Suggest(ctx context.Context, prompt string) providers.SuggestionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.panics {
		panic("gateway exploded")
	}
	return s.result
}

// memoryContributorRepository is a map-backed ContributorRepository
type memoryContributorRepository struct {
	mu     sync.Mutex
	byID   map[string]*entities.Contributor
	logins map[string]time.Time
}

func newMemoryContributorRepository() *memoryContributorRepository {
	return &memoryContributorRepository{
		byID:   make(map[string]*entities.Contributor),
		logins: make(map[string]time.Time),
	}
}

func (r *memoryContributorRepository) Create(ctx context.Context, c *entities.Contributor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == c.Email {
			return apperrors.NewConflictError("email already registered")
		}
	}
	copied := *c
	r.byID[c.ID] = &copied
	return nil
}

func (r *memoryContributorRepository) GetByID(ctx context.Context, id string) (*entities.Contributor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperrors.NewNotFoundError("contributor not found")
}

func (r *memoryContributorRepository) GetByEmail(ctx context.Context, email string) (*entities.Contributor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError("contributor not found")
}

func (r *memoryContributorRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[id] = at
	return nil
}

// memorySessionStore is a map-backed SessionStore
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entities.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*entities.Session)}
}

func (s *memorySessionStore) Save(ctx context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *memorySessionStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok && !session.Expired(time.Now()) {
		copied := *session
		return &copied, nil
	}
	return nil, apperrors.NewNotFoundError("session not found")
}

func (s *memorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
