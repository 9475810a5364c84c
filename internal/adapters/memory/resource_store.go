package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

const (
	recentStatsLimit = 5
	defaultListLimit = 500
)

// ResourceStore is an in-process ResourceRepository. It follows the same
// ordering, filtering and conflict rules as the PostgreSQL adapter.
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[string]*entities.Resource
	byURL     map[string]string
	now       func() time.Time
}

// NewResourceStore creates an empty store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[string]*entities.Resource),
		byURL:     make(map[string]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ repositories.ResourceRepository = (*ResourceStore)(nil)

// Create stores a copy of r
func (s *ResourceStore) Create(ctx context.Context, r *entities.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.resources[r.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("resource %s already exists", r.ID))
	}
	if _, taken := s.byURL[r.URL]; taken {
		return apperrors.NewConflictError(fmt.Sprintf("resource with url %s already exists", r.URL))
	}

	stored := clone(r)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	s.resources[r.ID] = stored
	s.byURL[r.URL] = r.ID
	return nil
}

// GetByID returns a copy of the stored resource
func (s *ResourceStore) GetByID(ctx context.Context, id string) (*entities.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", id))
	}
	return clone(r), nil
}

// Update replaces a stored resource
func (s *ResourceStore) Update(ctx context.Context, r *entities.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.resources[r.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", r.ID))
	}
	if owner, taken := s.byURL[r.URL]; taken && owner != r.ID {
		return apperrors.NewConflictError(fmt.Sprintf("resource with url %s already exists", r.URL))
	}

	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = s.now()
	}
	stored := clone(r)
	stored.CreatedAt = existing.CreatedAt
	stored.CreatedBy = existing.CreatedBy

	delete(s.byURL, existing.URL)
	s.byURL[stored.URL] = stored.ID
	s.resources[stored.ID] = stored
	return nil
}

// Delete removes a resource
func (s *ResourceStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resources[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", id))
	}
	delete(s.byURL, r.URL)
	delete(s.resources, id)
	return nil
}

// List returns matching resources ordered by priority, then most recently updated
func (s *ResourceStore) List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.collect(func(r *entities.Resource) bool {
		return matchesFilter(r, filter)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return page(matched, filter.Offset, limit), nil
}

// Search matches active resources containing any term of query in their
// title, description or tags
func (s *ResourceStore) Search(ctx context.Context, query string, limit int) ([]*entities.Resource, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return s.List(ctx, repositories.ResourceFilter{
			Statuses: []entities.ResourceStatus{entities.ResourceStatusActive},
			Limit:    limit,
		})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.collect(func(r *entities.Resource) bool {
		if r.Status != entities.ResourceStatusActive {
			return false
		}
		haystack := strings.ToLower(r.Title + "\n" + r.Description + "\n" + strings.Join(r.Tags, " "))
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				return true
			}
		}
		return false
	})

	if limit <= 0 {
		limit = len(matched)
	}
	return page(matched, 0, limit), nil
}

// UpdatePriority sets the priority weight of a resource
func (s *ResourceStore) UpdatePriority(ctx context.Context, id string, priority float64) error {
	return s.modify(id, func(r *entities.Resource) { r.Priority = priority })
}

// UpdateStatus sets the review status of a resource
func (s *ResourceStore) UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error {
	return s.modify(id, func(r *entities.Resource) { r.Status = status })
}

// Stats summarizes the stored catalog
func (s *ResourceStore) Stats(ctx context.Context) (*entities.CatalogStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &entities.CatalogStats{
		ByType:       make(map[string]int),
		ByDifficulty: make(map[entities.Difficulty]int),
		ByProvider:   make(map[string]int),
	}
	for _, r := range s.resources {
		stats.Total++
		switch r.Status {
		case entities.ResourceStatusActive:
			stats.Active++
		case entities.ResourceStatusPendingReview:
			stats.Pending++
		}
		stats.ByType[string(r.Type)]++
		stats.ByDifficulty[r.Difficulty]++
		if r.Provider != "" {
			stats.ByProvider[r.Provider]++
		}
	}

	recent := s.collect(func(*entities.Resource) bool { return true })
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	stats.Recent = page(recent, 0, recentStatsLimit)
	return stats, nil
}

func (s *ResourceStore) modify(id string, change func(*entities.Resource)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resources[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("resource with id %s not found", id))
	}
	change(r)
	r.UpdatedAt = s.now()
	return nil
}

// collect returns sorted copies of the resources accepted by keep. Callers hold the lock.
func (s *ResourceStore) collect(keep func(*entities.Resource) bool) []*entities.Resource {
	out := make([]*entities.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matchesFilter(r *entities.Resource, filter repositories.ResourceFilter) bool {
	if len(filter.Statuses) > 0 && !contains(filter.Statuses, r.Status) {
		return false
	}
	if len(filter.Difficulties) > 0 && !contains(filter.Difficulties, r.Difficulty) {
		return false
	}
	if len(filter.Types) > 0 && !contains(filter.Types, r.Type) {
		return false
	}
	if filter.CreatedBy != "" && r.CreatedBy != filter.CreatedBy {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func page(resources []*entities.Resource, offset, limit int) []*entities.Resource {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(resources) {
		return []*entities.Resource{}
	}
	end := offset + limit
	if end > len(resources) {
		end = len(resources)
	}
	return resources[offset:end]
}

func clone(r *entities.Resource) *entities.Resource {
	c := *r
	c.Tags = copyStrings(r.Tags)
	c.Prerequisites = copyStrings(r.Prerequisites)
	c.LearningOutcomes = copyStrings(r.LearningOutcomes)
	return &c
}

func copyStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
