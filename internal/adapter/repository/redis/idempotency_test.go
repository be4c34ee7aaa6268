package redis

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreCheckAndSet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if exists {
		t.Fatal("fresh key must not exist")
	}

	if err := store.Update(ctx, "key-1", []byte(`{"status":"ok"}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, stored, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !exists {
		t.Fatal("updated key must exist")
	}
	if !bytes.Equal(stored, []byte(`{"status":"ok"}`)) {
		t.Fatalf("stored response = %s", stored)
	}
}

func TestIdempotencyStoreReservesKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("first check failed: %v", err)
	}

	// A retry arriving before the first request finished sees the
	// reservation, not a fresh key.
	exists, stored, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if !exists {
		t.Fatal("reserved key must report as existing")
	}
	if string(stored) != "processing" {
		t.Fatalf("expected processing placeholder, got %s", stored)
	}
}
