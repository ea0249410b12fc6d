// Package cache remembers remote verdicts for unchanged file content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// DefaultTTL is how long a verdict stays valid
const DefaultTTL = 5 * time.Minute

type entry struct {
	verdict   verdict.Verdict
	createdAt time.Time
}

// Cache is a fingerprint-keyed verdict store with lazy TTL expiry
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache
type Option func(*Cache)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty cache
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fingerprint hashes content followed by path, so identical content at two paths gets two keys
func Fingerprint(content, path string) string {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte(path))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the verdict stored under key. Expired entries are evicted and reported absent.
func (c *Cache) Get(key string) (verdict.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return verdict.Verdict{}, false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key)
		log.DebugH3("[cache] evicted expired entry %s", key[:min(len(key), 12)])
		return verdict.Verdict{}, false
	}
	return e.verdict.WithProvenance(e.verdict.Provenance), true
}

// Set stores or overwrites the verdict under key
func (c *Cache) Set(key string, v verdict.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{verdict: v.WithProvenance(v.Provenance), createdAt: c.now()}
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of stored entries, expired ones included until looked up
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
