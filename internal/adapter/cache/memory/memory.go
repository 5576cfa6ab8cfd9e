// Package memory implements a bounded in-process link cache with LRU eviction
// and per-entry expiry.
package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/pkg/clock"
)

// DefaultCapacity is used when NewLinkCache is given a non-positive capacity.
const DefaultCapacity = 10_000

type item struct {
	code     string
	entry    entity.CacheEntry
	expireAt time.Time
}

// LinkCache keeps at most capacity entries. The front of order holds the most
// recently used entry.
type LinkCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
	clock    clock.Clock
}

func NewLinkCache(capacity int, clk clock.Clock) *LinkCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &LinkCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		clock:    clk,
	}
}

func (c *LinkCache) Get(ctx context.Context, code string) (entity.CacheEntry, bool) {
	if ctx.Err() != nil {
		return entity.CacheEntry{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[code]
	if !ok {
		return entity.CacheEntry{}, false
	}

	it := el.Value.(*item)
	if !c.clock.Now().Before(it.expireAt) {
		c.removeElement(el)
		return entity.CacheEntry{}, false
	}

	c.order.MoveToFront(el)

	return it.entry, true
}

func (c *LinkCache) Set(ctx context.Context, code string, entry entity.CacheEntry, ttl time.Duration) {
	if ttl <= 0 || ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expireAt := c.clock.Now().Add(ttl)

	if el, ok := c.items[code]; ok {
		it := el.Value.(*item)
		it.entry = entry
		it.expireAt = expireAt
		c.order.MoveToFront(el)
		return
	}

	for c.order.Len() >= c.capacity {
		c.removeElement(c.order.Back())
	}

	c.items[code] = c.order.PushFront(&item{
		code:     code,
		entry:    entry,
		expireAt: expireAt,
	})
}

// Len returns the number of entries held, including expired ones not yet evicted.
func (c *LinkCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

func (c *LinkCache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*item).code)
}
