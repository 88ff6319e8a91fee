// Package hls resolves HLS master playlists into per-variant stream
// candidates. Resolution never fails hard: any fetch or parse problem
// degrades to a single "Default" candidate for the original URL.
package hls

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamgrab/streamgrab/internal/stream"
)

const defaultTimeout = 10 * time.Second

// Maximum manifest size we are willing to read. Master playlists are tiny;
// anything larger is not one.
const maxManifestBytes = 2 << 20

// Config holds resolver configuration.
type Config struct {
	Timeout time.Duration
}

// Resolver fetches and parses master playlists.
type Resolver struct {
	client *http.Client
	logger zerolog.Logger
}

// NewResolver creates a resolver with the given configuration.
func NewResolver(cfg Config, logger zerolog.Logger) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Resolver{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "hls").Logger(),
	}
}

// Resolve fetches the manifest at manifestURL and returns its variant
// candidates sorted by descending bandwidth. On any network error,
// timeout, or a body without stream-info tags it returns exactly one
// fallback candidate: the original URL with quality "Default".
func (r *Resolver) Resolve(ctx context.Context, manifestURL string) []stream.Candidate {
	body, err := r.fetch(ctx, manifestURL)
	if err != nil {
		r.logger.Warn().Err(err).Str("url", manifestURL).Msg("manifest fetch failed, using default candidate")
		return fallback(manifestURL)
	}

	if !HasStreamInfo(body) {
		r.logger.Debug().Str("url", manifestURL).Msg("no stream-info tags, using default candidate")
		return fallback(manifestURL)
	}

	variants := ParseMaster(body, manifestURL)
	if len(variants) == 0 {
		return fallback(manifestURL)
	}

	r.logger.Debug().Str("url", manifestURL).Int("variants", len(variants)).Msg("manifest resolved")
	return variants
}

func (r *Resolver) fetch(ctx context.Context, manifestURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch manifest: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return "", fmt.Errorf("read manifest: %w", err)
	}

	return string(body), nil
}

func fallback(manifestURL string) []stream.Candidate {
	return []stream.Candidate{{
		URL:     manifestURL,
		Quality: "Default",
		Origin:  stream.OriginHLSVariant,
	}}
}
