package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestStore runs an in-memory Redis so unit tests need no daemon.
func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client), mr
}

func TestNewStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewStore should panic with nil redis client")
		}
	}()
	NewStore(nil)
}

func TestStore_SetAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	val := []byte(`{"id":"f1","title":"Star Wars"}`)
	if err := store.Set(ctx, "Film:get_by_id:entity_id=f1", val, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "Film:get_by_id:entity_id=f1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(val) {
		t.Errorf("Get = %s, want %s", got, val)
	}
}

func TestStore_Get_Miss(t *testing.T) {
	store, _ := setupTestStore(t)

	got, err := store.Get(context.Background(), "Film:get_by_id:entity_id=missing")
	if err != nil {
		t.Fatalf("Get on missing key should not error, got %v", err)
	}
	if got != nil {
		t.Errorf("Get on missing key = %s, want nil", got)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after expiry errored: %v", err)
	}
	if got != nil {
		t.Errorf("entry with ttl=1s still present after 2s: %s", got)
	}
}

func TestStore_DefaultTTL(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	// Non-positive TTL falls back to the 300s default.
	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ttl := mr.TTL("k")
	if ttl != DefaultTTL {
		t.Errorf("TTL = %v, want %v", ttl, DefaultTTL)
	}
}

func TestStore_Get_Unavailable(t *testing.T) {
	store, mr := setupTestStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	if err == nil {
		t.Error("Get against a closed Redis should surface an error for the caller to fail open on")
	}
}
