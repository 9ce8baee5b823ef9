// internal/ai/cache.go
package ai

import (
	"sync"
	"time"

	"formaai/backend/internal/domain"
)

// DefaultCacheTTL bounds how long a generated plan may be served from memory.
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	content  *domain.PlanContent
	storedAt time.Time
}

// PlanCache memoizes generated plan content per user for a bounded window.
// It is advisory only: the automatic weight-triggered path never reads it.
// Concurrent writers for one user race benignly; the last write wins.
type PlanCache struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]cacheEntry
	now func() time.Time // overridable in tests
}

// NewPlanCache creates a cache with the given TTL (DefaultCacheTTL when
// non-positive).
func NewPlanCache(ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PlanCache{
		ttl: ttl,
		m:   make(map[string]cacheEntry),
		now: time.Now,
	}
}

// Get returns the cached content for the user, evicting and missing when the
// entry has outlived the TTL.
func (c *PlanCache) Get(userID string) (*domain.PlanContent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.m[userID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.m, userID)
		return nil, false
	}
	return entry.content, true
}

// Set stores content for the user, replacing any previous entry.
func (c *PlanCache) Set(userID string, content *domain.PlanContent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[userID] = cacheEntry{content: content, storedAt: c.now()}
}

// Evict drops the user's entry if present.
func (c *PlanCache) Evict(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
}
