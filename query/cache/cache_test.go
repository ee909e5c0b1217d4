package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/query"
)

func countQuery(arg interface{}) query.Query {
	return query.Query{SQL: "SELECT count(*) FROM ( select * from foo f WHERE f.a = ? ) f", Args: []interface{}{arg}}
}

func TestGetPut(t *testing.T) {
	c := NewLRU(4, 0)

	_, ok := c.Get("f", countQuery(1))
	assert.False(t, ok)

	c.Put("f", countQuery(1), 42)
	n, ok := c.Get("f", countQuery(1))
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = c.Get("f", countQuery(2))
	assert.False(t, ok, "different args must not share a count")
	_, ok = c.Get("g", countQuery(1))
	assert.False(t, ok, "different scope must not share a count")

	s := c.Stats()
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(3), s.Misses)
	assert.Equal(t, 1, s.Size)
	assert.InDelta(t, 25.0, s.HitRate(), 0.001)
}

func TestEviction(t *testing.T) {
	c := NewLRU(2, 0)
	c.Put("f", countQuery(1), 1)
	c.Put("f", countQuery(2), 2)

	_, ok := c.Get("f", countQuery(1))
	require.True(t, ok)

	c.Put("f", countQuery(3), 3)

	_, ok = c.Get("f", countQuery(2))
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("f", countQuery(1))
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU(2, time.Minute)
	c.now = func() time.Time { return now }

	c.Put("f", countQuery(1), 7)
	now = now.Add(30 * time.Second)
	_, ok := c.Get("f", countQuery(1))
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("f", countQuery(1))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestInvalidateScope(t *testing.T) {
	c := NewLRU(8, 0)
	c.Put("f", countQuery(1), 1)
	c.Put("f", countQuery(2), 2)
	c.Put("g", countQuery(1), 3)

	c.InvalidateScope("f")

	assert.Equal(t, 1, c.Stats().Size)
	_, ok := c.Get("g", countQuery(1))
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, Stats{MaxSize: 8}, c.Stats())
}
