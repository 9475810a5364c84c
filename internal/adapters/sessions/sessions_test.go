package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, providers.ErrCacheMiss
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = expirationSeconds
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testSession(id string, ttl time.Duration) *entities.Session {
	return &entities.Session{
		ID:              id,
		ContributorID:   "c1",
		ContributorName: "Ada",
		Email:           "ada@example.org",
		CreatedAt:       fixedNow,
		ExpiresAt:       fixedNow.Add(ttl),
	}
}

func TestCacheStore_SaveAndGet(t *testing.T) {
	cache := newFakeCache()
	store := &CacheStore{cache: cache, now: func() time.Time { return fixedNow }}

	require.NoError(t, store.Save(context.Background(), testSession("s1", 90*time.Minute)))
	assert.Equal(t, 5400, cache.ttls["session:s1"])

	session, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "c1", session.ContributorID)
	assert.Equal(t, "Ada", session.ContributorName)
	assert.True(t, session.ExpiresAt.Equal(fixedNow.Add(90*time.Minute)))
}

func TestCacheStore_ExpiredSessions(t *testing.T) {
	cache := newFakeCache()
	now := fixedNow
	store := &CacheStore{cache: cache, now: func() time.Time { return now }}

	err := store.Save(context.Background(), testSession("old", -time.Minute))
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	require.NoError(t, store.Save(context.Background(), testSession("s1", time.Hour)))
	now = fixedNow.Add(2 * time.Hour)

	_, err = store.Get(context.Background(), "s1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCacheStore_MissingAndDeleted(t *testing.T) {
	store := &CacheStore{cache: newFakeCache(), now: func() time.Time { return fixedNow }}

	_, err := store.Get(context.Background(), "nope")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, store.Save(context.Background(), testSession("s1", time.Hour)))
	require.NoError(t, store.Delete(context.Background(), "s1"))
	_, err = store.Get(context.Background(), "s1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	now := fixedNow
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), testSession("s1", time.Hour)))
	require.NoError(t, store.Save(context.Background(), testSession("s2", 3*time.Hour)))

	session, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", session.Email)

	now = fixedNow.Add(2 * time.Hour)
	_, err = store.Get(context.Background(), "s1")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, store.Delete(context.Background(), "s2"))
	_, err = store.Get(context.Background(), "s2")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	store.now = func() time.Time { return fixedNow }

	require.NoError(t, store.Save(context.Background(), testSession("live", time.Hour)))
	require.NoError(t, store.Save(context.Background(), testSession("dead", 0)))
	require.NoError(t, store.Save(context.Background(), testSession("dead2", -time.Hour)))

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 0, store.Sweep())

	_, err := store.Get(context.Background(), "live")
	assert.NoError(t, err)
}
