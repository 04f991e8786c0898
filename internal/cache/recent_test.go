package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestRecent(maxSize int, ttl time.Duration) (*Recent[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewRecent[string](maxSize, ttl)
	c.now = clock.now
	return c, clock
}

func TestRecent_GetSet(t *testing.T) {
	c, _ := newTestRecent(10, time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "Transactions!A2:E2")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Transactions!A2:E2", v)

	c.Set("a", "Transactions!A3:E3")
	v, _ = c.Get("a")
	assert.Equal(t, "Transactions!A3:E3", v)
	assert.Equal(t, 1, c.Len())

	c.Delete("a")
	assert.Equal(t, 0, c.Len())
}

func TestRecent_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestRecent(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestRecent_Expiry(t *testing.T) {
	c, clock := newTestRecent(10, time.Minute)

	c.Set("a", "1")
	clock.t = clock.t.Add(30 * time.Second)
	c.Set("b", "2")

	clock.t = clock.t.Add(45 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)

	assert.Equal(t, 0, c.CleanExpired())
	clock.t = clock.t.Add(time.Minute)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 0, c.Len())
}

func TestRecent_RunCleanupStopsOnCancel(t *testing.T) {
	c := NewRecent[string](1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, c.RunCleanup(ctx, time.Hour))
}
