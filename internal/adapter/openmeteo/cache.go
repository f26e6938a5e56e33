package openmeteo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedSource wraps a WeatherSource with an in-memory LRU cache. Entries are
// keyed by location rounded to two decimals and by the current UTC hour, so a
// series is reused until the provider would publish the next hour. A cached
// series whose last sample falls before the provider-local date of now is
// refetched, since zones with half-hour offsets cross midnight mid-hour.
type CachedSource struct {
	inner   domain.WeatherSource
	cache   *lruCache
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a weather source.
func NewCachedSource(inner domain.WeatherSource, maxEntries int, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		clock:   clock,
		metrics: metrics,
	}
}

func (c *CachedSource) FetchHourly(ctx context.Context, lat, lon float64) (domain.HourlySeries, error) {
	now := c.clock.Now()
	key := cacheKey(lat, lon, now)
	if series, ok := c.cache.get(key); ok && coversLocalDate(series, now) {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return series, nil
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	series, err := c.inner.FetchHourly(ctx, lat, lon)
	if err != nil {
		return series, err
	}
	// Empty series are not cached so the next request retries the provider.
	if len(series.Timestamps) > 0 {
		c.cache.put(key, series)
	}
	return series, nil
}

// coversLocalDate reports whether the series reaches the date of now in the
// provider's zone.
func coversLocalDate(series domain.HourlySeries, now time.Time) bool {
	if len(series.Timestamps) == 0 {
		return false
	}
	last := series.Timestamps[len(series.Timestamps)-1]
	return strings.HasPrefix(last, now.In(series.Location()).Format(time.DateOnly))
}

func cacheKey(lat, lon float64, now time.Time) string {
	return fmt.Sprintf("%.2f,%.2f@%s", lat, lon, now.UTC().Truncate(time.Hour).Format(time.RFC3339))
}

// lruCache is a simple thread-safe LRU cache for hourly series.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.HourlySeries
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.HourlySeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.HourlySeries{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.HourlySeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
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

func (c *lruCache) remove(e *entry) {
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

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
