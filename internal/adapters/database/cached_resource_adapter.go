package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/observability"
)

// Cache TTLs (in seconds)
const (
	resourceByIDTTL   = 300 // 5 minutes for single resource
	resourcesListTTL  = 180 // 3 minutes for lists and searches
	resourceKeyPrefix = "resource:"
)

// CachedResourceAdapter wraps a ResourceRepository with read-through caching.
// Writes go straight to the wrapped repository and invalidate every resource key.
type CachedResourceAdapter struct {
	adapter repositories.ResourceRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedResourceAdapter creates a new cached resource adapter
func NewCachedResourceAdapter(adapter repositories.ResourceRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.ResourceRepository {
	return &CachedResourceAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

func resourceCacheKey(id string) string {
	return fmt.Sprintf("%sid:%s", resourceKeyPrefix, id)
}

func resourcesListCacheKey(filter repositories.ResourceFilter) string {
	statuses := make([]string, len(filter.Statuses))
	for i, s := range filter.Statuses {
		statuses[i] = string(s)
	}
	levels := make([]string, len(filter.Difficulties))
	for i, d := range filter.Difficulties {
		levels[i] = fmt.Sprint(int(d))
	}
	types := make([]string, len(filter.Types))
	for i, t := range filter.Types {
		types[i] = string(t)
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%s:%d:%d", resourceKeyPrefix,
		strings.Join(statuses, ","), strings.Join(levels, ","), strings.Join(types, ","),
		filter.CreatedBy, filter.Limit, filter.Offset)
}

func resourcesSearchCacheKey(query string, limit int) string {
	return fmt.Sprintf("%ssearch:%s:%d", resourceKeyPrefix, strings.ToLower(strings.TrimSpace(query)), limit)
}

// GetByID retrieves a resource by ID with caching
func (a *CachedResourceAdapter) GetByID(ctx context.Context, id string) (*entities.Resource, error) {
	cacheKey := resourceCacheKey(id)

	var cached entities.Resource
	if a.lookup(ctx, cacheKey, "resource", &cached) {
		return &cached, nil
	}

	resource, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, resource, resourceByIDTTL)
	return resource, nil
}

// List retrieves resources with caching
func (a *CachedResourceAdapter) List(ctx context.Context, filter repositories.ResourceFilter) ([]*entities.Resource, error) {
	cacheKey := resourcesListCacheKey(filter)

	var cached []*entities.Resource
	if a.lookup(ctx, cacheKey, "resource_list", &cached) {
		return cached, nil
	}

	resources, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, resources, resourcesListTTL)
	return resources, nil
}

// Search searches resources with caching
func (a *CachedResourceAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Resource, error) {
	cacheKey := resourcesSearchCacheKey(query, limit)

	var cached []*entities.Resource
	if a.lookup(ctx, cacheKey, "resource_search", &cached) {
		return cached, nil
	}

	resources, err := a.adapter.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, resources, resourcesListTTL)
	return resources, nil
}

// Create creates a resource and invalidates cached reads
func (a *CachedResourceAdapter) Create(ctx context.Context, resource *entities.Resource) error {
	if err := a.adapter.Create(ctx, resource); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// Update updates a resource and invalidates cached reads
func (a *CachedResourceAdapter) Update(ctx context.Context, resource *entities.Resource) error {
	if err := a.adapter.Update(ctx, resource); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// Delete deletes a resource and invalidates cached reads
func (a *CachedResourceAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// UpdatePriority updates a priority and invalidates cached reads
func (a *CachedResourceAdapter) UpdatePriority(ctx context.Context, id string, priority float64) error {
	if err := a.adapter.UpdatePriority(ctx, id, priority); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// UpdateStatus updates a status and invalidates cached reads
func (a *CachedResourceAdapter) UpdateStatus(ctx context.Context, id string, status entities.ResourceStatus) error {
	if err := a.adapter.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// Stats is not cached
func (a *CachedResourceAdapter) Stats(ctx context.Context) (*entities.CatalogStats, error) {
	return a.adapter.Stats(ctx)
}

// lookup decodes a cached value into dest and reports whether it was usable
func (a *CachedResourceAdapter) lookup(ctx context.Context, key, family string, dest interface{}) bool {
	data, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		observability.RecordCacheMiss(ctx, a.metrics, family)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
		observability.RecordCacheMiss(ctx, a.metrics, family)
		return false
	}
	observability.RecordCacheHit(ctx, a.metrics, family)
	return true
}

// store writes value to the cache in the background
func (a *CachedResourceAdapter) store(key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	go func() {
		if err := a.cache.Set(context.Background(), key, data, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache value")
		}
	}()
}

// invalidate drops every cached resource read. Reads issued after a write
// must not see entries from before it.
func (a *CachedResourceAdapter) invalidate(ctx context.Context) {
	if err := a.cache.DeletePattern(ctx, resourceKeyPrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate resource cache")
	}
}
