package task

import (
	"context"
	"log"
	"sync"

	domain "github.com/example/task-management-app/domain/task"
	"github.com/example/task-management-app/modules/cache"
	"golang.org/x/sync/singleflight"
)

// CachedStore adds cache-aside reads of single tasks on top of another
// Store. Listings always go to the inner store. Cache failures are logged
// and the inner store answers instead.
//
// A miss is written back only if no invalidation happened while its inner
// lookup ran. mu orders that check and the write against invalidation.
type CachedStore struct {
	inner   Store
	cache   *cache.Cache
	sfGroup singleflight.Group

	mu         sync.Mutex
	generation uint64
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore wraps inner with c.
func NewCachedStore(inner Store, c *cache.Cache) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: c,
	}
}

// cacheKey scopes the entry by owner so a lookup under the wrong owner
// can never hit another user's entry.
func cacheKey(id, ownerID string) string {
	return ownerID + ":" + id
}

// cachedTask carries the owner, which Task omits from JSON.
type cachedTask struct {
	Task    domain.Task `json:"task"`
	OwnerID string      `json:"owner_id"`
}

func (s *CachedStore) Insert(ctx context.Context, title, description, ownerID string) (*domain.Task, error) {
	return s.inner.Insert(ctx, title, description, ownerID)
}

func (s *CachedStore) ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error) {
	return s.inner.ListByOwner(ctx, ownerID, filter)
}

// FindOne serves from cache when possible. Concurrent misses for the same
// key share one inner lookup. Misses that end in NotFound are not cached.
func (s *CachedStore) FindOne(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	key := cacheKey(id, ownerID)

	var cached cachedTask
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[task] Cache error for %s: %v", key, err)
	}
	if found {
		t := cached.Task
		t.OwnerID = cached.OwnerID
		return &t, nil
	}

	gen := s.currentGeneration()
	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return s.inner.FindOne(ctx, id, ownerID)
	})
	if err != nil {
		return nil, err
	}

	// Callers may mutate the result, so each gets its own copy.
	t := *val.(*domain.Task)

	s.fill(ctx, key, gen, cachedTask{Task: t, OwnerID: t.OwnerID})
	return &t, nil
}

func (s *CachedStore) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// fill caches value unless an invalidation happened after gen was read.
func (s *CachedStore) fill(ctx context.Context, key string, gen uint64, value cachedTask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("[task] Warning: failed to cache task %s: %v", value.Task.ID, err)
	}
}

func (s *CachedStore) Save(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	saved, err := s.inner.Save(ctx, t)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, t.ID, t.OwnerID)
	return saved, nil
}

func (s *CachedStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	affected, err := s.inner.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.invalidate(ctx, id, ownerID)
	}
	return affected, nil
}

// invalidate drops the entry and bumps the generation so misses already in
// flight are not written back. Forgetting the key makes later readers start
// a fresh lookup instead of joining a stale one.
func (s *CachedStore) invalidate(ctx context.Context, id, ownerID string) {
	key := cacheKey(id, ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.sfGroup.Forget(key)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("[task] Warning: failed to invalidate cache for task %s: %v", id, err)
	}
}

// Stats exposes the cache counters.
func (s *CachedStore) Stats() cache.StatsSnapshot {
	return s.cache.Stats()
}

// Ping checks both the cache and the inner store.
func (s *CachedStore) Ping(ctx context.Context) error {
	if err := s.cache.Ping(ctx); err != nil {
		return err
	}
	if lc, ok := s.inner.(storeLifecycle); ok {
		return lc.Ping(ctx)
	}
	return nil
}

// Close closes the cache and the inner store.
func (s *CachedStore) Close() error {
	cacheErr := s.cache.Close()
	if lc, ok := s.inner.(storeLifecycle); ok {
		if err := lc.Close(); err != nil {
			return err
		}
	}
	return cacheErr
}
