// internal/intent/memory.go
package intent

import (
	"container/list"
	"context"
	"sync"
	"time"

	"plan-access-bot/internal/common/clock"
	"plan-access-bot/internal/models"
)

type memoryEntry struct {
	userID    int64
	plan      models.Tier
	expiresAt time.Time
}

// MemoryCache is an in-process cache bounded by TTL and by maxEntries, evicting the least
// recently written entry when full.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	clock      clock.Clock
	order      *list.List // front = most recently written
	entries    map[int64]*list.Element
}

func NewMemoryCache(ttl time.Duration, maxEntries int, clk clock.Clock) *MemoryCache {
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clk,
		order:      list.New(),
		entries:    make(map[int64]*list.Element),
	}
}

func (c *MemoryCache) SetIntent(_ context.Context, userID int64, plan models.Tier) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if el, ok := c.entries[userID]; ok {
		entry := el.Value.(*memoryEntry)
		entry.plan = plan
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return nil
	}

	c.entries[userID] = c.order.PushFront(&memoryEntry{userID: userID, plan: plan, expiresAt: expiresAt})
	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
	return nil
}

func (c *MemoryCache) GetIntent(_ context.Context, userID int64, def models.Tier) models.Tier {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[userID]
	if !ok {
		return def
	}
	entry := el.Value.(*memoryEntry)
	if c.ttl > 0 && !c.clock.Now().Before(entry.expiresAt) {
		c.removeElement(el)
		return def
	}
	return entry.plan
}

// Len reports the number of stored entries, expired ones included until they are touched.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.entries, el.Value.(*memoryEntry).userID)
}
