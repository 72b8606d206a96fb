package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// entry holds a cached token with its creation timestamp.
type entry struct {
	token     string
	createdAt time.Time
}

// TokenCache is an in-memory cache of vendor temp tokens keyed by
// credential identity, so a multi-fetch report run exchanges the master
// token once instead of per request. It is safe for concurrent use.
type TokenCache struct {
	mu    sync.RWMutex
	store map[string]*entry
	ttl   time.Duration
}

// New creates a TokenCache whose entries expire after ttl. A background
// goroutine evicts expired entries every minute.
func New(ttl time.Duration) *TokenCache {
	c := &TokenCache{
		store: make(map[string]*entry),
		ttl:   ttl,
	}
	go c.cleanupLoop()
	return c
}

// Key derives the cache key from the credential identity. The master
// token participates so a rotated credential never reuses a stale entry.
func Key(username, sitename, masterToken string) string {
	h := sha256.New()
	h.Write([]byte(username))
	h.Write([]byte("|"))
	h.Write([]byte(sitename))
	h.Write([]byte("|"))
	h.Write([]byte(masterToken))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached token if it exists and has not expired.
func (c *TokenCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		return "", false
	}
	return e.token, true
}

// Set stores a freshly issued token.
func (c *TokenCache) Set(key, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = &entry{token: token, createdAt: time.Now()}
}

// Invalidate drops a token, forcing the next Get to miss. Called when
// the API rejects a cached token before its TTL is up.
func (c *TokenCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
}

// cleanupLoop evicts expired entries every minute.
func (c *TokenCache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.ttl)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
