package alpha

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"alphawatch/pkg/twitter"
)

type cacheEntry struct {
	profile   *twitter.Profile
	fetchedAt time.Time
}

// ProfileCache is a bounded, time-expiring store of fetched profiles.
// Entries expire after ttl even if not yet swept; when an insert pushes the
// cache over capacity the oldest-inserted entries are evicted first.
type ProfileCache struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	order    []string // insertion order, oldest first
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewProfileCache creates a cache with the given TTL and capacity.
func NewProfileCache(ttl time.Duration, capacity int) *ProfileCache {
	return &ProfileCache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the cached profile for handle, or nil on a miss. An entry
// past its TTL is a miss even if the sweep has not removed it yet.
func (c *ProfileCache) Get(handle string) *twitter.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[handle]
	if !ok {
		return nil
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		return nil
	}
	return entry.profile
}

// Put stores a profile, superseding any previous entry for the handle, and
// evicts oldest-inserted entries until the cache is back under capacity.
func (c *ProfileCache) Put(handle string, profile *twitter.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[handle]; !exists {
		c.order = append(c.order, handle)
	}
	c.entries[handle] = cacheEntry{profile: profile, fetchedAt: c.now()}

	for len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Sweep removes every TTL-expired entry. Run periodically from the cache
// cleanup job.
func (c *ProfileCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	kept := c.order[:0]
	for _, handle := range c.order {
		entry, ok := c.entries[handle]
		if !ok {
			continue
		}
		if now.Sub(entry.fetchedAt) > c.ttl {
			delete(c.entries, handle)
			removed++
			continue
		}
		kept = append(kept, handle)
	}
	c.order = kept

	if removed > 0 {
		log.Infof("Cleared %d expired profiles from cache", removed)
	}
	return removed
}

// Len returns the number of live entries.
func (c *ProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
