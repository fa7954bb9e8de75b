// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheBasicOperations(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(missing) error = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, err := c.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get(%q) after clear error = %v, want ErrCacheMiss", key, err)
		}
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	keys := []string{"timeline::10:0", "timeline:family:10:0", "dashboard:stats"}
	for _, key := range keys {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := c.DeletePrefix(ctx, "timeline:"); err != nil {
		t.Fatalf("DeletePrefix() error = %v", err)
	}

	for _, key := range keys[:2] {
		if _, err := c.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get(%q) after DeletePrefix error = %v, want ErrCacheMiss", key, err)
		}
	}
	if _, err := c.Get(ctx, "dashboard:stats"); err != nil {
		t.Errorf("Get(dashboard:stats) error = %v, key outside the prefix must survive", err)
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Second close is a no-op
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get() on closed cache error = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set() on closed cache error = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheValueIsolation(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	original := []byte("immutable")
	if err := c.Set(ctx, "k", original, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	original[0] = 'X'

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "immutable" {
		t.Errorf("stored value mutated: got %q", got)
	}
}

func TestNewFactorySelectsMemory(t *testing.T) {
	c, err := New(Config{DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("New() without RedisURL = %T, want *MemoryCache", c)
	}
}

type statsPayload struct {
	Tributes int `json:"tributes"`
	Photos   int `json:"photos"`
}

func TestTypedCache(t *testing.T) {
	backing := NewMemoryCache(time.Minute)
	defer backing.Close()
	c := NewTypedCache[statsPayload](backing, time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "stats"); ok {
		t.Error("Get() on empty cache reported a hit")
	}

	want := &statsPayload{Tributes: 7, Photos: 3}
	if err := c.Set(ctx, "stats", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(ctx, "stats")
	if !ok {
		t.Fatal("Get() reported a miss after Set")
	}
	if *got != *want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestTypedCacheGetOrSet(t *testing.T) {
	backing := NewMemoryCache(time.Minute)
	defer backing.Close()
	c := NewTypedCache[statsPayload](backing, time.Minute)
	ctx := context.Background()

	calls := 0
	compute := func() (*statsPayload, error) {
		calls++
		return &statsPayload{Tributes: 1}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet(ctx, "stats", compute)
		if err != nil {
			t.Fatalf("GetOrSet() error = %v", err)
		}
		if got.Tributes != 1 {
			t.Errorf("GetOrSet() = %+v", got)
		}
	}

	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}
