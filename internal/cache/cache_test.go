// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c := New("test", ttl)
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist before TTL")
	}

	time.Sleep(80 * time.Millisecond)
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to expire after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry removed, got %d entries", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.SetWithTTL("short", "v", 50*time.Millisecond)
	c.Set("long", "v")

	time.Sleep(80 * time.Millisecond)
	if _, exists := c.Get("short"); exists {
		t.Error("Expected short-TTL entry to expire")
	}
	if _, exists := c.Get("long"); !exists {
		t.Error("Expected default-TTL entry to survive")
	}
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}

	// Deleting a missing key is a no-op.
	c.Delete("missing")
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t, time.Minute)

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	if c.Len() != 10 {
		t.Fatalf("Expected 10 entries, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d entries", c.Len())
	}
	if _, exists := c.Get("key0"); exists {
		t.Error("Expected key0 to be gone after Clear")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := newTestCache(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%10)
				c.Set(key, n)
				c.Get(key)
				if j%25 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestCacheCleanupSweep(t *testing.T) {
	c := newTestCache(t, 10*time.Millisecond)

	c.Set("key1", "value1")
	time.Sleep(30 * time.Millisecond)

	// The sweep ticker has not fired yet, the entry is only lazily
	// expired. cleanup removes it without a Get.
	c.cleanup()
	if c.Len() != 0 {
		t.Errorf("Expected cleanup to remove expired entry, got %d entries", c.Len())
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		CustomerID string
		Count      int
	}

	k1 := GenerateKey("recommendations", params{"c1", 5})
	k2 := GenerateKey("recommendations", params{"c1", 5})
	k3 := GenerateKey("recommendations", params{"c1", 6})

	if k1 != k2 {
		t.Errorf("Identical params produced different keys: %s vs %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("Different params produced the same key")
	}
	if k1 == GenerateKey("datasets", params{"c1", 5}) {
		t.Error("Different methods produced the same key")
	}
}
