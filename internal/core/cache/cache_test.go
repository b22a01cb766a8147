package cache

import (
	"context"
	"testing"
	"time"
)

func TestGetOrLoadCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())

	loads := 0
	load := func(context.Context) ([]byte, error) {
		loads++
		return []byte(`["a"]`), nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrLoad(ctx, "mess", "list", time.Minute, load); err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1 (cached reads)", loads)
	}

	c.Invalidate(ctx, "mess")
	if _, err := c.GetOrLoad(ctx, "mess", "list", time.Minute, load); err != nil {
		t.Fatalf("GetOrLoad after invalidate: %v", err)
	}
	if loads != 2 {
		t.Fatalf("loads = %d, want 2 (invalidate forces reload)", loads)
	}
}

func TestInvalidateOnlyBumpsItsTag(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())

	messLoads, bazarLoads := 0, 0
	_, _ = c.GetOrLoad(ctx, "mess", "list", time.Minute, func(context.Context) ([]byte, error) {
		messLoads++
		return []byte(`[]`), nil
	})
	_, _ = c.GetOrLoad(ctx, "bazar", "list", time.Minute, func(context.Context) ([]byte, error) {
		bazarLoads++
		return []byte(`[]`), nil
	})

	c.Invalidate(ctx, "bazar")

	_, _ = c.GetOrLoad(ctx, "mess", "list", time.Minute, func(context.Context) ([]byte, error) {
		messLoads++
		return []byte(`[]`), nil
	})
	_, _ = c.GetOrLoad(ctx, "bazar", "list", time.Minute, func(context.Context) ([]byte, error) {
		bazarLoads++
		return []byte(`[]`), nil
	})

	if messLoads != 1 {
		t.Fatalf("mess loads = %d, want 1 (untouched tag stays cached)", messLoads)
	}
	if bazarLoads != 2 {
		t.Fatalf("bazar loads = %d, want 2", bazarLoads)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := s.Get(ctx, "k"); err != ErrMiss {
		t.Fatalf("expired get err = %v, want ErrMiss", err)
	}
}
