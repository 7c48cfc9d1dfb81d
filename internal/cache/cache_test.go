package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("analysis", "v1", "hash")
	b := CacheKey("analysis", "v1", "hash")
	c := CacheKey("analysis", "v1hash")

	if a != b {
		t.Error("keys for identical parts must match")
	}
	if a == c {
		t.Error("part boundaries must affect the key")
	}
	if !strings.HasPrefix(a, "sentinel:v1:analysis:") {
		t.Errorf("unexpected key %q", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d", c.Len())
	}

	_ = c.Set("short", []byte("x"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("expected expired entry to miss")
	}

	_ = c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestMemoryCacheKeepsOwnCopy(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	buf := []byte(`{"risk":"high"}`)
	_ = c.Set("analysis", buf, 0)
	copy(buf, "XXXXXXXX")

	got, ok := c.Get("analysis")
	if !ok || string(got) != `{"risk":"high"}` {
		t.Errorf("Expected stored analysis to survive buffer reuse, got %q", got)
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := CacheKey("analysis", "doc")

	if err := c.Set(key, []byte(`{"score":42}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get(key)
	if !ok || string(got) != `{"score":42}` {
		t.Errorf("Get = %s, %v", got, ok)
	}

	if err := c.Set("bad", []byte("not json"), 0); err == nil {
		t.Error("expected error for non-JSON value")
	}

	if err := c.Delete(key); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("second Delete should be a no-op: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after Delete")
	}
}

func TestDiskCacheExpiryAndPrune(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	_ = c.Set("fresh", []byte(`1`), time.Hour)
	_ = c.Set("stale", []byte(`2`), -time.Second)
	if err := os.WriteFile(filepath.Join(dir, "corrupt.cache"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	removed, err := c.Prune()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("Prune removed %d, want 2", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry should survive Prune")
	}
	if _, ok := c.Get("stale"); ok {
		t.Error("stale entry should be gone")
	}
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	// Populate only the disk layer
	if err := NewDiskCache(dir, time.Hour).Set("k", []byte(`"v"`), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.memory.Get("k"); ok {
		t.Fatal("memory layer should start empty")
	}

	if got, ok := c.Get("k"); !ok || string(got) != `"v"` {
		t.Fatalf("Get = %s, %v", got, ok)
	}
	if _, ok := c.memory.Get("k"); !ok {
		t.Error("disk hit should be promoted to memory")
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	type record struct {
		Section string `json:"section"`
	}

	if err := SetJSON(c, "law", record{Section: "Section 27"}, 0); err != nil {
		t.Fatal(err)
	}
	var got record
	if !GetJSON(c, "law", &got) || got.Section != "Section 27" {
		t.Errorf("GetJSON = %+v", got)
	}

	_ = c.Set("corrupt", []byte("{"), 0)
	if GetJSON(c, "corrupt", &got) {
		t.Error("corrupt entry should be a miss")
	}
}
