// Package dispatch turns a resolved stream candidate into an external
// invocation: a direct download hand-off, an Android intent share, a
// native share, or a clipboard export. Every terminal path ends in a
// user-visible notification; nothing here is fatal to the host.
package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/naming"
	"github.com/streamgrab/streamgrab/internal/resolve"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// ErrInvalidURL marks a dispatch attempt for a URL without an http(s)
// scheme.
var ErrInvalidURL = errors.New("stream URL is not an absolute http(s) URL")

const defaultSubtitleStagger = 800 * time.Millisecond

// Request carries everything needed to dispatch one resolved stream.
type Request struct {
	Candidate stream.Candidate
	Context   stream.MediaContext
	Headers   stream.Headers
	Subtitles []stream.Subtitle
}

// Config holds dispatcher configuration.
type Config struct {
	// SubtitleStagger is the delay between consecutive companion
	// invocations; external apps handle concurrent intents unreliably.
	SubtitleStagger time.Duration
}

// Dispatcher emits external invocations through the host collaborators.
type Dispatcher struct {
	registry  *Registry
	invoker   host.Invoker
	clipboard host.Clipboard
	sharer    host.Sharer
	notifier  host.Notifier
	logger    zerolog.Logger
	stagger   time.Duration
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(registry *Registry, invoker host.Invoker, clipboard host.Clipboard, sharer host.Sharer, notifier host.Notifier, cfg Config, logger zerolog.Logger) *Dispatcher {
	stagger := cfg.SubtitleStagger
	if stagger < 0 {
		stagger = defaultSubtitleStagger
	}

	return &Dispatcher{
		registry:  registry,
		invoker:   invoker,
		clipboard: clipboard,
		sharer:    sharer,
		notifier:  notifier,
		logger:    logger.With().Str("component", "dispatch").Logger(),
		stagger:   stagger,
	}
}

// Registry exposes the configured target table.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Send dispatches the stream to an external target, then dispatches any
// companion subtitles with a staggered delay.
func (d *Dispatcher) Send(req Request, target Target) error {
	streamURL, stem, err := d.prepare(req)
	if err != nil {
		return err
	}

	switch target.Mode {
	case ModeDirect:
		direct := WithFilenameFragment(streamURL, stem, naming.Extension(streamURL))
		extras := map[string]string{"title": titleSideChannel(stem)}
		for k, v := range headerExtras(req.Headers) {
			extras[k] = v
		}
		err = d.invoker.Open(direct, extras)
	default:
		var extras map[string]string
		if target.AcceptsHeaders {
			extras = headerExtras(req.Headers)
		}
		err = d.invoker.Open(BuildIntentURL(streamURL, target.Package, extras), nil)
	}

	if err != nil {
		d.logger.Warn().Err(err).Str("target", target.ID).Msg("external invocation failed")
		d.notifier.Notify(fmt.Sprintf("Could not open %s", target.Name))
		return err
	}

	d.logger.Info().Str("target", target.ID).Str("url", streamURL).Msg("download dispatched")
	d.notifier.Notify(fmt.Sprintf("Opening %s...", target.Name))

	if len(req.Subtitles) > 0 {
		go d.sendSubtitles(req.Subtitles, target, stem)
	}
	return nil
}

// sendSubtitles dispatches companion tracks one by one, separated by the
// configured stagger.
func (d *Dispatcher) sendSubtitles(subs []stream.Subtitle, target Target, stem string) {
	for i, sub := range subs {
		time.Sleep(d.stagger)

		suffix := strings.TrimSpace(sub.Label)
		if suffix == "" {
			suffix = fmt.Sprintf("subtitle %d", i+1)
		}

		name := naming.Sanitize(stem + " - " + suffix)
		ext := naming.SubtitleExtension(sub.URL)

		var err error
		switch target.Mode {
		case ModeDirect:
			err = d.invoker.Open(WithFilenameFragment(sub.URL, name, ext), nil)
		default:
			err = d.invoker.Open(BuildIntentURL(sub.URL, target.Package, nil), nil)
		}
		if err != nil {
			d.logger.Warn().Err(err).Str("url", sub.URL).Msg("subtitle dispatch failed")
		}
	}
}

// CopyURL copies the bare stream URL.
func (d *Dispatcher) CopyURL(req Request) error {
	streamURL, _, err := d.prepare(req)
	if err != nil {
		return err
	}

	if err := d.clipboard.Copy(streamURL); err != nil {
		d.notifier.Notify("Copy failed")
		return err
	}
	d.notifier.Notify("URL copied")
	return nil
}

// CopyFilename copies the synthesized filename alone.
func (d *Dispatcher) CopyFilename(req Request) error {
	streamURL, stem, err := d.prepare(req)
	if err != nil {
		return err
	}

	if err := d.clipboard.Copy(stem + naming.Extension(streamURL)); err != nil {
		d.notifier.Notify("Copy failed")
		return err
	}
	d.notifier.Notify("Filename copied")
	return nil
}

// CopyDetails copies a combined text block: URL, filename and any
// captured transport headers.
func (d *Dispatcher) CopyDetails(req Request) error {
	streamURL, stem, err := d.prepare(req)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(streamURL + "\n")
	b.WriteString(stem + naming.Extension(streamURL) + "\n")
	for _, key := range []string{"Referer", "User-Agent", "Cookie", "Origin"} {
		if v, ok := req.Headers[key]; ok {
			b.WriteString(key + ": " + v + "\n")
		}
	}

	if err := d.clipboard.Copy(b.String()); err != nil {
		d.notifier.Notify("Copy failed")
		return err
	}
	d.notifier.Notify("Details copied")
	return nil
}

// Share uses the platform's native share surface, falling back to a
// clipboard copy on cancellation or absence.
func (d *Dispatcher) Share(req Request) error {
	streamURL, stem, err := d.prepare(req)
	if err != nil {
		return err
	}

	if err := d.sharer.Share(stem, streamURL); err == nil {
		d.notifier.Notify("Shared")
		return nil
	}

	if err := d.clipboard.Copy(streamURL); err != nil {
		d.notifier.Notify("Share failed")
		return err
	}
	d.notifier.Notify("URL copied")
	return nil
}

// prepare validates and unwraps the request URL and synthesizes the
// filename stem shared by every path.
func (d *Dispatcher) prepare(req Request) (streamURL, stem string, err error) {
	streamURL = resolve.UnwrapProxy(req.Candidate.URL)
	if !stream.IsHTTPURL(streamURL) {
		d.notifier.Notify("URL not found")
		return "", "", ErrInvalidURL
	}

	return streamURL, naming.Stem(req.Context, req.Candidate.Quality), nil
}
