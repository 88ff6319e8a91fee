// Package probe resolves remote file sizes through a memoizing,
// process-wide cache. Size is display sugar: every failure mode degrades
// to 0 ("unknown") and is cached so a URL is only ever probed once per
// session.
package probe

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamgrab/streamgrab/internal/stream"
)

const defaultTimeout = 5 * time.Second

// Config holds prober configuration.
type Config struct {
	Timeout time.Duration
}

// Prober resolves content lengths with a URL-keyed cache. Entries are
// never evicted; the cache lives for one player session.
type Prober struct {
	client *http.Client
	logger zerolog.Logger

	mu    sync.RWMutex
	sizes map[string]int64
}

// NewProber creates a prober with the given configuration.
func NewProber(cfg Config, logger zerolog.Logger) *Prober {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Prober{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "probe").Logger(),
		sizes:  make(map[string]int64),
	}
}

// Size returns the content length for url in bytes, or 0 if unknown. A
// cache hit returns synchronously without network activity. Manifest URLs
// are never probed: their manifest size is meaningless to the user.
func (p *Prober) Size(ctx context.Context, url string) int64 {
	if size, ok := p.cached(url); ok {
		return size
	}

	var size int64
	if !stream.IsManifestURL(url) {
		size = p.head(ctx, url)
	}

	p.store(url, size)
	return size
}

// SizeAll probes a batch of URLs concurrently and applies each result to
// its stable index as the response arrives. apply must tolerate being
// called for rows that no longer exist (write-if-present).
func (p *Prober) SizeAll(ctx context.Context, urls []string, apply func(index int, size int64)) {
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(index int, url string) {
			defer wg.Done()
			apply(index, p.Size(ctx, url))
		}(i, u)
	}
	wg.Wait()
}

// CachedLen returns the number of cached entries.
func (p *Prober) CachedLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sizes)
}

func (p *Prober) cached(url string) (int64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	size, ok := p.sizes[url]
	return size, ok
}

func (p *Prober) store(url string, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sizes[url] = size
}

// head issues a header-only request. Any non-success status, network
// error or timeout yields 0; size unknown is not an error condition here.
func (p *Prober) head(ctx context.Context, url string) int64 {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug().Err(err).Str("url", url).Msg("size probe failed")
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("size probe rejected")
		return 0
	}

	if resp.ContentLength < 0 {
		return 0
	}
	return resp.ContentLength
}
