package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	store := NewSessionStore(ttl)
	store.now = clock.Now
	return store, clock
}

func TestNewSessionStore_DefaultTTL(t *testing.T) {
	store := NewSessionStore(0)
	assert.Equal(t, DefaultTTL, store.ttl)
}

func TestSessionStore_SaveLoad(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", map[string]string{"clientId": "id1", "state": "t1"}))
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"state": "t2"}))

	values, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"clientId": "id1", "state": "t2"}, values)
}

func TestSessionStore_Load_Missing(t *testing.T) {
	store, _ := newTestStore(time.Minute)

	values, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSessionStore_Load_ReturnsCopy(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"state": "t1"}))

	values, _ := store.Load(ctx, "s1")
	values["state"] = "mutated"

	again, _ := store.Load(ctx, "s1")
	assert.Equal(t, "t1", again["state"])
}

func TestSessionStore_Expiry(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"state": "t1"}))

	clock.Advance(30 * time.Second)
	values, _ := store.Load(ctx, "s1")
	assert.Equal(t, "t1", values["state"])

	clock.Advance(31 * time.Second)
	values, _ = store.Load(ctx, "s1")
	assert.Empty(t, values)

	token, err := store.Take(ctx, "s1", "state")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSessionStore_SaveExtendsTTL(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"state": "t1"}))

	clock.Advance(50 * time.Second)
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"clientId": "id1"}))
	clock.Advance(50 * time.Second)

	values, _ := store.Load(ctx, "s1")
	assert.Equal(t, "t1", values["state"])
}

func TestSessionStore_Take(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"state": "t1", "clientId": "id1"}))

	token, err := store.Take(ctx, "s1", "state")
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	token, err = store.Take(ctx, "s1", "state")
	require.NoError(t, err)
	assert.Empty(t, token)

	values, _ := store.Load(ctx, "s1")
	assert.Equal(t, map[string]string{"clientId": "id1"}, values)
}

func TestSessionStore_Take_Concurrent(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"state": "t1"}))

	var wg sync.WaitGroup
	results := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, _ := store.Take(ctx, "s1", "state")
			results <- token
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for token := range results {
		if token != "" {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent Take must win")
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"a": "1", "b": "2"}))

	require.NoError(t, store.Delete(ctx, "s1", "a"))
	values, _ := store.Load(ctx, "s1")
	assert.Equal(t, map[string]string{"b": "2"}, values)

	require.NoError(t, store.Delete(ctx, "s1", "b"))
	assert.Equal(t, 0, store.Len(), "empty sessions are dropped")
}

func TestSessionStore_Delete_All(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", map[string]string{"a": "1"}))
	require.NoError(t, store.Save(ctx, "s2", map[string]string{"a": "1"}))

	require.NoError(t, store.Delete(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "missing"))

	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_Cleanup(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, fmt.Sprintf("old-%d", i), map[string]string{"a": "1"}))
	}
	clock.Advance(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "new", map[string]string{"a": "1"}))

	removed, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Equal(t, 1, store.Len())
}
