package morph

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized analyses.
const DefaultCacheSize = 50000

// Backend is a source of word analyses that may hold external resources.
type Backend interface {
	Analyze(ctx context.Context, word string) (Parse, error)
	Close() error
}

// Cached memoizes the analyses of a backend. Texts repeat the same word
// forms many times, so most lookups never reach the backend.
type Cached struct {
	backend Backend
	cache   *lru.Cache[string, Parse]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCached wraps backend with an LRU of the given size (DefaultCacheSize when <= 0).
func NewCached(backend Backend, size int) (*Cached, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Parse](size)
	if err != nil {
		return nil, fmt.Errorf("create analysis cache: %w", err)
	}
	return &Cached{backend: backend, cache: cache}, nil
}

// Analyze returns the memoized parse or asks the backend. Failed lookups are not cached.
func (c *Cached) Analyze(ctx context.Context, word string) (Parse, error) {
	if p, ok := c.cache.Get(word); ok {
		c.hits.Add(1)
		return p, nil
	}
	c.misses.Add(1)
	p, err := c.backend.Analyze(ctx, word)
	if err != nil {
		return Parse{}, err
	}
	c.cache.Add(word, p)
	return p, nil
}

// Stats reports cache hits and misses since creation.
func (c *Cached) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close drops the cache and closes the backend.
func (c *Cached) Close() error {
	c.cache.Purge()
	return c.backend.Close()
}
