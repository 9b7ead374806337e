// Package cache provides an in-memory TTL cache for ticket summaries.
// Entries expire on lookup; there is no background sweeper.
package cache

import (
	"sync"
	"time"

	"github.com/clintrovert/tricorder/pkg/types"
)

type entry struct {
	summary   *types.TicketSummary
	expiresAt time.Time
}

// Cache maps ticket keys to summaries with a fixed time-to-live. Safe for
// concurrent use by multiple in-flight requests.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry

	// now is replaceable in tests.
	now func() time.Time
}

// New creates an empty cache whose entries live for ttl after insertion.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached summary for key, or false when the key is absent
// or its entry has expired. Expired entries are removed.
func (c *Cache) Get(key string) (*types.TicketSummary, bool) {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(ent.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry since the read above.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return ent.summary, true
}

// Put inserts or replaces the entry for key, stamping a fresh expiry.
func (c *Cache) Put(key string, summary *types.TicketSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		summary:   summary,
		expiresAt: c.now().Add(c.ttl),
	}
}

// SetNow replaces the cache's clock. Tests use it to drive expiry without
// sleeping.
func (c *Cache) SetNow(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Len reports the number of entries currently held, including any that
// have expired but not yet been looked up.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
