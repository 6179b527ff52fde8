package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bluele/gcache"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// memoSize bounds the per-run page memo; a busy window yields a few hundred pages.
const memoSize = 512

// Client fetches pages from the timetable website through the on-disk cache.
type Client struct {
	httpClient *http.Client
	cache      *Cache
	memo       gcache.Cache

	// ForceRefresh skips both cache layers on read; fresh pages are still stored.
	ForceRefresh bool
}

// NewClient creates a client with a fixed per-request timeout. cache may be nil.
func NewClient(cache *Cache, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
		memo:  gcache.New(memoSize).LRU().Build(),
	}
}

// Fetch returns the HTML at url. A non-200 status or a timeout is an error that
// names the URL; there is no retry.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if !c.ForceRefresh {
		if v, err := c.memo.Get(url); err == nil {
			return v.(string), nil
		}
		if c.cache != nil {
			if html, ok := c.cache.Read(url); ok {
				log.Debug().Str("url", url).Msg("Cache hit")
				_ = c.memo.Set(url, html)
				return html, nil
			}
		}
	}

	html, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Write(url, html); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to store page in cache")
		}
	}
	_ = c.memo.Set(url, html)

	return html, nil
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("could not build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d when fetching %s", resp.StatusCode, url)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("could not decode %s: %w", url, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	log.Debug().Str("url", url).Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("Fetched page")
	return string(data), nil
}
