package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const overlayKeyPrefix = "prediction:overlay:"

// RedisOverlayCache stores prediction overlays as JSON in Redis
type RedisOverlayCache struct {
	client *redis.Client
}

func NewRedisOverlayCache(client *redis.Client) repository.OverlayCacheRepository {
	return &RedisOverlayCache{client: client}
}

func overlayKey(id int64) string {
	return fmt.Sprintf("%s%d", overlayKeyPrefix, id)
}

func (c *RedisOverlayCache) Get(ctx context.Context, id int64) (entity.Overlay, bool, error) {
	data, err := c.client.Get(ctx, overlayKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read overlay: %w", err)
	}

	var overlay entity.Overlay
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, false, fmt.Errorf("failed to decode overlay: %w", err)
	}
	return overlay, true, nil
}

// Set stores the overlay. A zero ttl keeps it until deleted.
func (c *RedisOverlayCache) Set(ctx context.Context, id int64, overlay entity.Overlay, ttl time.Duration) error {
	data, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	if err := c.client.Set(ctx, overlayKey(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write overlay: %w", err)
	}
	return nil
}

func (c *RedisOverlayCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, overlayKey(id)).Err()
}

type overlayEntry struct {
	overlay entity.Overlay
	expires time.Time
}

// MemoryOverlayCache keeps overlays in process memory
type MemoryOverlayCache struct {
	mu      sync.RWMutex
	entries map[int64]overlayEntry
	now     func() time.Time
}

func NewMemoryOverlayCache() *MemoryOverlayCache {
	return &MemoryOverlayCache{
		entries: make(map[int64]overlayEntry),
		now:     time.Now,
	}
}

func (c *MemoryOverlayCache) Get(ctx context.Context, id int64) (entity.Overlay, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expires.IsZero() && c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, false, nil
	}
	return copyOverlay(entry.overlay), true, nil
}

func (c *MemoryOverlayCache) Set(ctx context.Context, id int64, overlay entity.Overlay, ttl time.Duration) error {
	entry := overlayEntry{overlay: copyOverlay(overlay)}
	if ttl > 0 {
		entry.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[id] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryOverlayCache) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	return nil
}

func copyOverlay(o entity.Overlay) entity.Overlay {
	out := make(entity.Overlay, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
