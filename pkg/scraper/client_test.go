package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_FetchUsesDiskCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected a User-Agent header")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>0824½</html>"))
	}))
	defer server.Close()

	cache := NewCache(t.TempDir())
	client := NewClient(cache, 5*time.Second)

	html, err := client.Fetch(context.Background(), server.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if html != "<html>0824½</html>" {
		t.Errorf("unexpected body %q", html)
	}

	// A second client shares only the disk cache
	second := NewClient(cache, 5*time.Second)
	if _, err := second.Fetch(context.Background(), server.URL+"/page"); err != nil {
		t.Fatalf("cached Fetch failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected exactly one network request, got %d", hits)
	}
}

func TestClient_FetchDecodesLatin1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte{'0', '8', '2', '4', 0xBD}) // ½ in Latin-1
	}))
	defer server.Close()

	client := NewClient(nil, 5*time.Second)
	html, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if html != "0824½" {
		t.Errorf("expected UTF-8 decoded body, got %q", html)
	}
}

func TestClient_FetchNon200IsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cache := NewCache(t.TempDir())
	client := NewClient(cache, 5*time.Second)

	_, err := client.Fetch(context.Background(), server.URL+"/down")
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !strings.Contains(err.Error(), server.URL+"/down") {
		t.Errorf("expected error to name the URL, got %v", err)
	}
	if _, ok := cache.Read(server.URL + "/down"); ok {
		t.Errorf("failed responses must not be cached")
	}
}

func TestClient_FetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(nil, 50*time.Millisecond)
	if _, err := client.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClient_ForceRefreshBypassesCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("fresh"))
	}))
	defer server.Close()

	cache := NewCache(t.TempDir())
	if err := cache.Write(server.URL, "stale"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	client := NewClient(cache, 5*time.Second)
	client.ForceRefresh = true

	html, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if html != "fresh" || hits != 1 {
		t.Errorf("expected a network fetch, got %q after %d hits", html, hits)
	}
	if cached, _ := cache.Read(server.URL); cached != "fresh" {
		t.Errorf("expected refreshed page to be stored, got %q", cached)
	}
}
