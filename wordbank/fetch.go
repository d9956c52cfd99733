package wordbank

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultURL serves the combined list of accepted guesses and historical
// answers, one word per line.
const DefaultURL = "https://raw.githubusercontent.com/tabatkins/wordle-list/main/words"

type FetchOptions struct {
	URL       string
	CachePath string        // empty disables the on-disk cache
	MaxAge    time.Duration // cache freshness bound; zero means the cache never expires
	Client    *http.Client
}

// Fetch loads the word bank from the cache if it is fresh, otherwise
// downloads it and rewrites the cache.
func Fetch(ctx context.Context, opts FetchOptions) (*Bank, error) {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}

	if b, ok := fromCache(opts); ok {
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("word bank request: %w", err)
	}
	resp, err := opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch word bank: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch word bank: %s returned %s", opts.URL, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read word bank: %w", err)
	}

	b := New(strings.Split(string(body), "\n"))
	if b.Len() == 0 {
		return nil, fmt.Errorf("word bank at %s contained no 5-letter words", opts.URL)
	}
	if opts.CachePath != "" {
		if err := writeCache(opts.CachePath, body); err != nil {
			log.Printf("word bank cache write failed: %v", err)
		}
	}
	return b, nil
}

// Load is Fetch with a fallback chain: fresh cache, network, stale cache,
// bundled list. It never fails; degraded sources are logged.
func Load(ctx context.Context, opts FetchOptions) *Bank {
	b, err := Fetch(ctx, opts)
	if err == nil {
		return b
	}
	log.Printf("word bank fetch failed, trying stale cache: %v", err)
	stale := opts
	stale.MaxAge = 0
	if b, ok := fromCache(stale); ok {
		return b
	}
	log.Printf("word bank falling back to bundled list")
	return Bundled()
}

func fromCache(opts FetchOptions) (*Bank, bool) {
	if opts.CachePath == "" {
		return nil, false
	}
	info, err := os.Stat(opts.CachePath)
	if err != nil {
		return nil, false
	}
	if opts.MaxAge > 0 && time.Since(info.ModTime()) > opts.MaxAge {
		return nil, false
	}
	body, err := os.ReadFile(opts.CachePath)
	if err != nil {
		return nil, false
	}
	b := New(strings.Split(string(body), "\n"))
	if b.Len() == 0 {
		return nil, false
	}
	return b, true
}

func writeCache(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
