package registry

import (
	"sync"

	"github.com/relicta-tech/resolvo/internal/domain/version"
)

// Cache memoizes registry answers for the duration of one run. It is safe
// for concurrent use by the baseline fan-out.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	version version.Version
	found   bool
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// get returns the cached answer for name. ok reports whether an answer was
// cached at all, found whether the package was published.
func (c *Cache) get(name string) (v version.Version, found, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[name]
	return entry.version, entry.found, ok
}

func (c *Cache) put(name string, v version.Version, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[name] = cacheEntry{version: v, found: found}
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
