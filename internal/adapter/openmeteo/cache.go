package openmeteo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/couchcryptid/surf-conditions-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedSource wraps a ConditionSource with an in-memory LRU cache whose
// entries expire after a TTL.
type CachedSource struct {
	inner   domain.ConditionSource
	current *lruCache[domain.RawReading]
	daily   *lruCache[[]domain.DailyReading]
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a source. A nil clock uses
// real time.
func NewCachedSource(inner domain.ConditionSource, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedSource{
		inner:   inner,
		current: newLRUCache[domain.RawReading](maxEntries, ttl, clock),
		daily:   newLRUCache[[]domain.DailyReading](maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedSource) Current(ctx context.Context, spot domain.Spot) (domain.RawReading, error) {
	if r, ok := c.current.get(spot.Slug); ok {
		c.record("hit")
		return r, nil
	}
	c.record("miss")

	r, err := c.inner.Current(ctx, spot)
	if err != nil {
		return r, err
	}
	// A partial reading means one upstream failed. Leave it uncached so the
	// next call retries instead of serving half the picture for a full TTL.
	if r.Complete() {
		c.current.put(spot.Slug, r)
	}
	return r, nil
}

func (c *CachedSource) Daily(ctx context.Context, spot domain.Spot, days int) ([]domain.DailyReading, error) {
	key := fmt.Sprintf("%s|%d", spot.Slug, days)
	if d, ok := c.daily.get(key); ok {
		c.record("hit")
		return clone(d), nil
	}
	c.record("miss")

	d, err := c.inner.Daily(ctx, spot, days)
	if err != nil {
		return d, err
	}
	if allComplete(d) {
		c.daily.put(key, clone(d))
	}
	return d, nil
}

func allComplete(d []domain.DailyReading) bool {
	if len(d) == 0 {
		return false
	}
	for _, day := range d {
		if !day.Reading.Complete() {
			return false
		}
	}
	return true
}

func (c *CachedSource) record(result string) {
	if c.metrics != nil {
		c.metrics.SourceCache.WithLabelValues(result).Inc()
	}
}

func clone(d []domain.DailyReading) []domain.DailyReading {
	out := make([]domain.DailyReading, len(d))
	copy(out, d)
	return out
}

// lruCache is a thread-safe LRU cache with per-entry expiry.
type lruCache[V any] struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

func newLRUCache[V any](maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
