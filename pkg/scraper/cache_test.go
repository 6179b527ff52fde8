package scraper

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheReadWrite(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "cache"))
	url := "https://www.realtimetrains.co.uk/search/detailed/gb-nr:PAD/2025-08-20/0700-1000"

	// 1. Read non-existent cache
	if html, ok := cache.Read(url); ok || html != "" {
		t.Errorf("expected Read to miss on an empty cache, got hit")
	}

	// 2. Write cache
	page := "<html><body>1A23 ½</body></html>"
	if err := cache.Write(url, page); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// File name is the URL hash, content is the page verbatim
	expectedPath := filepath.Join(cache.Dir, cacheFileName(url))
	data, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("expected cache file at %s: %v", expectedPath, err)
	}
	if string(data) != page {
		t.Errorf("cache file is not verbatim: %q", data)
	}

	// 3. Read existing cache
	html, ok := cache.Read(url)
	if !ok || html != page {
		t.Fatalf("expected Read to hit with the written page, got %q (ok=%v)", html, ok)
	}
}

func TestCacheFileNameIsDeterministic(t *testing.T) {
	a := cacheFileName("https://example.com/a")
	if a != cacheFileName("https://example.com/a") {
		t.Errorf("same URL must map to the same file")
	}
	if a == cacheFileName("https://example.com/b") {
		t.Errorf("different URLs must map to different files")
	}
	// md5 hex + extension
	if len(a) != 32+len(".html") {
		t.Errorf("unexpected file name %s", a)
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(t.TempDir())

	for _, url := range []string{"https://example.com/old", "https://example.com/new"} {
		if err := cache.Write(url, "page"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	// Age one entry
	oldPath := filepath.Join(cache.Dir, cacheFileName("https://example.com/old"))
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("failed to age cache file: %v", err)
	}

	removed, err := cache.Clear(24 * time.Hour)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 stale file removed, got %d", removed)
	}
	if _, ok := cache.Read("https://example.com/new"); !ok {
		t.Errorf("fresh entry must survive an age-limited clear")
	}

	removed, err = cache.Clear(0)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected remaining file removed, got %d", removed)
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "never-created"))
	removed, err := cache.Clear(0)
	if err != nil || removed != 0 {
		t.Errorf("expected clearing a missing directory to be a no-op, got %d, %v", removed, err)
	}
}
