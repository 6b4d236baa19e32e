package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/mdtree/internal/doctree"
)

// entry is a cached parse of one input.
type entry struct {
	elements []*doctree.Element
	counts   doctree.Counts
	storedAt time.Time
}

// Cache is a thread-safe in-memory parse cache with TTL eviction, keyed by
// content hash. Cached element trees are shared and must not be modified.
// A zero TTL disables caching.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

func (c *Cache) Put(key string, elements []*doctree.Element, counts doctree.Counts) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{elements: elements, counts: counts, storedAt: time.Now()}
}

// Get returns the cached parse for key, if present and not expired.
func (c *Cache) Get(key string) ([]*doctree.Element, doctree.Counts, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Since(e.storedAt) > c.ttl {
		return nil, doctree.Counts{}, false
	}
	return e.elements, e.counts, true
}

// Len returns the number of entries, expired ones included until Cleanup.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
