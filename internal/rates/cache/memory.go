package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is an in-process Cache
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	logger  *zap.Logger
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache(logger *zap.Logger) *MemoryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		logger:  logger,
		now:     time.Now,
	}
}

// Get implements Cache
func (c *MemoryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	if !found || !c.now().Before(entry.expires) {
		c.logger.Debug("Cache miss", zap.String("key", key))
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	c.logger.Debug("Cache hit", zap.String("key", key))
	return true, nil
}

// Set implements Cache
func (c *MemoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: data, expires: c.now().Add(ttl)}
	c.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// ClearExpired drops expired entries and returns how many were removed
func (c *MemoryCache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor clears expired entries every interval until ctx is done
func (c *MemoryCache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.ClearExpired(); n > 0 {
					c.logger.Debug("Cleared expired cache entries", zap.Int("count", n))
				}
			}
		}
	}()
}
