package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exerciseSlotGuard(t *testing.T, g SlotGuard) {
	t.Helper()
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "write:s1:org_1:theme", 1, time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, ok=%v err=%v", ok, err)
	}
	ok, err = g.Acquire(ctx, "write:s1:org_1:theme", 1, time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second acquire to be rejected, ok=%v err=%v", ok, err)
	}
	ok, err = g.Acquire(ctx, "write:s1:org_2:theme", 1, time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected other tenant to be independent, ok=%v err=%v", ok, err)
	}
	if err := g.Release(ctx, "write:s1:org_1:theme"); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = g.Acquire(ctx, "write:s1:org_1:theme", 1, time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release to succeed, ok=%v err=%v", ok, err)
	}
}

func TestMemorySlotGuard(t *testing.T) {
	exerciseSlotGuard(t, NewMemorySlotGuard())
}

func TestMemorySlotGuard_ExpiresLeakedSlots(t *testing.T) {
	g := NewMemorySlotGuard()
	now := time.Unix(1700000000, 0)
	g.now = func() time.Time { return now }

	if ok, _ := g.Acquire(context.Background(), "k", 1, time.Second); !ok {
		t.Fatalf("expected acquire")
	}
	now = now.Add(2 * time.Second)
	if ok, _ := g.Acquire(context.Background(), "k", 1, time.Second); !ok {
		t.Fatalf("expected expired slot to be reclaimed")
	}
}

func TestRedisSlotGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseSlotGuard(t, NewRedisSlotGuard(rdb))
}

func TestSlotGuard_RejectsBadArgs(t *testing.T) {
	g := NewMemorySlotGuard()
	if _, err := g.Acquire(context.Background(), "", 1, time.Second); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, err := g.Acquire(context.Background(), "k", 0, time.Second); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}
