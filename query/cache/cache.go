// Package cache memoizes count-query results so that paging through an
// unchanged filter does not re-run the count.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/satishbabariya/querykit/query"
)

// Counts stores row counts by count query.
type Counts interface {
	Get(scope string, q query.Query) (int64, bool)
	Put(scope string, q query.Query, n int64)
	// InvalidateScope drops every count stored under scope.
	InvalidateScope(scope string)
	Clear()
	Stats() Stats
}

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
}

// HitRate is the percentage of lookups that hit.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

type entry struct {
	key       string
	count     int64
	expiresAt time.Time
}

// LRU is a size-bounded count cache with an optional TTL. Safe for concurrent use.
type LRU struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
	stats   Stats
	now     func() time.Time
}

// NewLRU creates a cache holding at most maxSize counts. A zero ttl never expires.
func NewLRU(maxSize int, ttl time.Duration) *LRU {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LRU{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		stats:   Stats{MaxSize: maxSize},
		now:     time.Now,
	}
}

// Key is the cache key of q under scope: "count:<scope>:<hash>".
func Key(scope string, q query.Query) string {
	sum := sha256.Sum256([]byte(q.Key()))
	return "count:" + scope + ":" + hex.EncodeToString(sum[:8])
}

// Get returns the count stored for q.
func (c *LRU) Get(scope string, q query.Query) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[Key(scope, q)]
	if !ok {
		c.stats.Misses++
		return 0, false
	}
	e := el.Value.(*entry)
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.remove(el)
		c.stats.Misses++
		return 0, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return e.count, true
}

// Put stores n for q, evicting the least recently used count when full.
func (c *LRU) Put(scope string, q query.Query, n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	key := Key(scope, q)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.count = n
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
			c.stats.Evictions++
		}
	}
	c.items[key] = c.order.PushFront(&entry{key: key, count: n, expiresAt: expiresAt})
}

// InvalidateScope drops every count stored under scope.
func (c *LRU) InvalidateScope(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := "count:" + scope + ":"
	for key, el := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
		}
	}
}

// Clear removes all entries and resets statistics.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.stats = Stats{MaxSize: c.maxSize}
}

// Stats returns cache statistics
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.order.Len()
	return s
}

func (c *LRU) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
