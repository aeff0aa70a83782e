// Package cache provides the resolution cache backends.
//
// A Store is a flat byte store keyed by string. FileCache is the
// default on-disk backend, RedisCache serves shared deployments, and
// NullCache disables caching. Entries never expire; clearing the cache
// is the only invalidation.
//
// ResolutionCache layers the planner's typed view on top of a Store.
// Every backend failure there degrades to a cache miss, so planning
// never fails because of the cache.
package cache

import (
	"context"
	"encoding/json"

	"github.com/porg-project/porg-deps/pkg/observability"
)

// Store is the byte-level cache surface implemented by all backends.
type Store interface {
	// Get retrieves a value. Missing keys return ok=false with no error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value, overwriting any previous one.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// resolutionPrefix namespaces resolution orders within a Store.
const resolutionPrefix = "resolve:"

// ResolutionCache stores computed build orders keyed by root package
// name. It satisfies the planner's cache surface.
type ResolutionCache struct {
	store Store
	warn  func(format string, args ...any)
}

// NewResolutionCache wraps store. warn receives diagnostics for
// degraded operations and may be nil.
func NewResolutionCache(store Store, warn func(format string, args ...any)) *ResolutionCache {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &ResolutionCache{store: store, warn: warn}
}

// Get returns the cached order for root. Backend errors and corrupt
// entries are reported as misses.
func (c *ResolutionCache) Get(ctx context.Context, root string) ([]string, bool) {
	key := resolutionPrefix + root
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.warn("cache get %s: %v", root, err)
		observability.Cache().OnCacheMiss(ctx, root)
		return nil, false
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, root)
		return nil, false
	}
	var order []string
	if err := json.Unmarshal(data, &order); err != nil {
		c.warn("cache entry for %s is corrupt, dropping it", root)
		_ = c.store.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, root)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, root)
	return order, true
}

// Put stores the order for root. Failures are reported to warn and
// otherwise ignored.
func (c *ResolutionCache) Put(ctx context.Context, root string, order []string) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, resolutionPrefix+root, data); err != nil {
		c.warn("cache put %s: %v", root, err)
		return
	}
	observability.Cache().OnCacheSet(ctx, root, len(data))
}
