package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cachedIndex struct {
	idx   *index
	built time.Time
	ttl   time.Duration
}

func (c *cachedIndex) expired() bool {
	if c.ttl == 0 {
		return true
	}
	return time.Since(c.built) > c.ttl
}

// cacheStore holds indices keyed by spec cache key.
type cacheStore struct {
	mu      sync.RWMutex
	entries map[string]*cachedIndex
	sf      singleflight.Group
}

func newCacheStore() *cacheStore {
	return &cacheStore{entries: make(map[string]*cachedIndex)}
}

func (s *cacheStore) get(key string) (*index, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.entries[key]
	if !ok || c.expired() {
		return nil, false
	}
	return c.idx, true
}

// getOrBuildIndex returns a fresh cached index or builds one.
// Concurrent builds for the same spec are collapsed into one.
func (r *Reconciler) getOrBuildIndex(ctx context.Context, spec *Spec) (*index, error) {
	if spec.CacheTTL <= 0 {
		return r.buildIndex(ctx, spec)
	}

	key := spec.CacheKey()
	if idx, ok := r.cache.get(key); ok {
		return idx, nil
	}

	v, err, _ := r.cache.sf.Do(key, func() (any, error) {
		if idx, ok := r.cache.get(key); ok {
			return idx, nil
		}

		idx, err := r.buildIndex(ctx, spec)
		if err != nil {
			return nil, err
		}

		r.cache.mu.Lock()
		r.cache.entries[key] = &cachedIndex{idx: idx, built: time.Now(), ttl: spec.CacheTTL}
		r.cache.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*index), nil
}

// InvalidateCache drops the cached index of a spec.
func (r *Reconciler) InvalidateCache(spec *Spec) {
	r.cache.mu.Lock()
	delete(r.cache.entries, spec.CacheKey())
	r.cache.mu.Unlock()
}
