// Package uistate caches menu state the host UI re-reads on every
// redraw: team names, workflow labels, and the last values the user
// picked. Reads never touch the network; entries change only through
// Set or an explicit Refresh.
package uistate

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Loader produces fresh values for a cache key, typically from the
// service. It is invoked only during Refresh.
type Loader func(ctx context.Context) ([]string, error)

// Cache is a mutex-guarded key-value store for dropdown contents and
// selections. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]string
	loaders map[string]Loader
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]string),
		loaders: make(map[string]Loader),
	}
}

// Register associates a loader with a key so Refresh can repopulate it.
func (c *Cache) Register(key string, load Loader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaders[key] = load
}

// Get returns the cached values for key. The second return reports
// whether the key has ever been populated.
func (c *Cache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	values, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, true
}

// Set stores values for key, replacing any previous entry.
func (c *Cache) Set(key string, values []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]string, len(values))
	copy(stored, values)
	c.entries[key] = stored
}

// Refresh repopulates key through its registered loader. The stale
// entry is kept when the loader fails, so the UI degrades to old data
// rather than an empty menu.
func (c *Cache) Refresh(ctx context.Context, key string) ([]string, error) {
	c.mu.Lock()
	load, ok := c.loaders[key]
	c.mu.Unlock()
	if !ok {
		return nil, &NoLoaderError{Key: key}
	}

	values, err := load(ctx)
	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("Menu refresh failed, keeping cached values")
		return nil, err
	}

	c.Set(key, values)
	return values, nil
}

// RefreshAll refreshes every registered key, returning the first error
// after attempting all of them.
func (c *Cache) RefreshAll(ctx context.Context) error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.loaders))
	for key := range c.loaders {
		keys = append(keys, key)
	}
	c.mu.Unlock()

	var firstErr error
	for _, key := range keys {
		if _, err := c.Refresh(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NoLoaderError reports a Refresh against a key that was never
// registered.
type NoLoaderError struct {
	Key string
}

func (e *NoLoaderError) Error() string {
	return "no loader registered for menu key " + e.Key
}
