package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestSessionStore creates a test Redis client and SessionStore
func setupTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewSessionStore(client, time.Minute)

	return store, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestNewSessionStore(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	if store.client == nil {
		t.Error("expected non-nil Redis client")
	}
	if store.ttl != time.Minute {
		t.Errorf("expected ttl 1m, got %v", store.ttl)
	}

	if got := NewSessionStore(store.client, 0).ttl; got != DefaultTTL {
		t.Errorf("expected default ttl %v, got %v", DefaultTTL, got)
	}
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if _, err := NewClient(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestSessionStore_Save_Success(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.Save(ctx, "sess-1", map[string]string{"clientId": "id1", "state": "token-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := "webauth:session:sess-1"
	if !mr.Exists(key) {
		t.Fatal("expected session hash to exist")
	}
	if got := mr.HGet(key, "clientId"); got != "id1" {
		t.Errorf("expected clientId id1, got %q", got)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected ttl within 1m, got %v", ttl)
	}
}

func TestSessionStore_Save_Empty(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()

	if err := store.Save(context.Background(), "sess-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists("webauth:session:sess-1") {
		t.Error("expected no hash for empty save")
	}
}

func TestSessionStore_Save_Expires(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Save(ctx, "sess-1", map[string]string{"state": "token-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	values, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected expired session to be empty, got %v", values)
	}
}

func TestSessionStore_Load_Success(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	_ = store.Save(ctx, "sess-1", map[string]string{"clientId": "id1"})
	_ = store.Save(ctx, "sess-1", map[string]string{"clientSecret": "secret1"})

	values, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values["clientId"] != "id1" || values["clientSecret"] != "secret1" {
		t.Errorf("unexpected values: %v", values)
	}
}

func TestSessionStore_Load_NotFound(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	values, err := store.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty map, got %v", values)
	}
}

func TestSessionStore_Take_Success(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	_ = store.Save(ctx, "sess-1", map[string]string{"state": "token-1", "clientId": "id1"})

	value, err := store.Take(ctx, "sess-1", "state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "token-1" {
		t.Errorf("expected token-1, got %q", value)
	}
	if got := mr.HGet("webauth:session:sess-1", "state"); got != "" {
		t.Errorf("expected state to be removed, got %q", got)
	}
	if got := mr.HGet("webauth:session:sess-1", "clientId"); got != "id1" {
		t.Errorf("expected other fields untouched, got %q", got)
	}
}

func TestSessionStore_Take_SingleUse(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	_ = store.Save(ctx, "sess-1", map[string]string{"state": "token-1"})

	if _, err := store.Take(ctx, "sess-1", "state"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := store.Take(ctx, "sess-1", "state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value on second take, got %q", value)
	}
}

func TestSessionStore_Take_Concurrent(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	_ = store.Save(ctx, "sess-1", map[string]string{"state": "token-1"})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := store.Take(ctx, "sess-1", "state")
			if err == nil && value != "" {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestSessionStore_Take_NotFound(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	value, err := store.Take(context.Background(), "missing", "state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func TestSessionStore_Delete_Keys(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	_ = store.Save(ctx, "sess-1", map[string]string{"clientId": "id1", "clientSecret": "s", "other": "x"})

	if err := store.Delete(ctx, "sess-1", "clientId", "clientSecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys, err := mr.HKeys("webauth:session:sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "other" {
		t.Errorf("expected only 'other' to remain, got %v", keys)
	}
}

func TestSessionStore_Delete_All(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()
	ctx := context.Background()

	_ = store.Save(ctx, "sess-1", map[string]string{"clientId": "id1"})

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists("webauth:session:sess-1") {
		t.Error("expected session hash to be deleted")
	}
}

func TestSessionStore_Delete_NotFound(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	if err := store.Delete(context.Background(), "missing", "state"); err != nil {
		t.Errorf("expected no error deleting missing session, got %v", err)
	}
}

func TestSessionStore_Ping(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Error("expected error after redis shut down")
	}
}

func TestSessionStore_Save_ConnectionError(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()

	mr.Close()
	if err := store.Save(context.Background(), "sess-1", map[string]string{"a": "b"}); err == nil {
		t.Error("expected error when redis is unavailable")
	}
}
