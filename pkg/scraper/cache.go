package scraper

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cache stores fetched pages verbatim on disk, one file per URL.
// A file's presence is a hit; entries never expire on their own.
type Cache struct {
	Dir string
}

// NewCache returns a cache rooted at dir. The directory is created on first write.
func NewCache(dir string) *Cache {
	return &Cache{Dir: dir}
}

// cacheFileName maps a URL to a deterministic, filesystem-safe name.
func cacheFileName(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:]) + ".html"
}

func (c *Cache) path(url string) string {
	return filepath.Join(c.Dir, cacheFileName(url))
}

// Read returns the cached page for url, if any.
func (c *Cache) Read(url string) (string, bool) {
	data, err := os.ReadFile(c.path(url))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Write saves the page for url.
func (c *Cache) Write(url string, html string) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("could not create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path(url), []byte(html), 0644); err != nil {
		return fmt.Errorf("could not write cache file: %w", err)
	}
	return nil
}

// Clear deletes cached pages last written more than olderThan ago; zero clears all.
// It returns the number of files removed.
func (c *Cache) Clear(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("could not read cache directory: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return removed, err
		}
		if olderThan > 0 && info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(c.Dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("could not remove %s: %w", entry.Name(), err)
		}
		removed++
	}

	return removed, nil
}
