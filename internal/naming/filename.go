// Package naming synthesizes canonical, filesystem-safe filenames for
// resolved streams from the playback media context.
package naming

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/streamgrab/streamgrab/internal/quality"
	"github.com/streamgrab/streamgrab/internal/stream"
)

const (
	partSeparator = " - "

	// fallbackStem is used when the context yields nothing usable.
	fallbackStem = "video"
)

// Stem builds a sanitized filename stem (no extension) for the given media
// context and quality label. Deterministic: the same inputs always produce
// the same stem.
func Stem(mc stream.MediaContext, qualityLabel string) string {
	var parts []string

	title := strings.TrimSpace(mc.Title)

	if mc.IsSeries {
		if title != "" {
			parts = append(parts, title)
		}
		if mc.Season > 0 || mc.Episode > 0 {
			parts = append(parts, fmt.Sprintf("S%02dE%02d", mc.Season, mc.Episode))
		}
		if et := strings.TrimSpace(mc.EpisodeTitle); et != "" && !strings.EqualFold(et, title) {
			parts = append(parts, et)
		}
	} else {
		if title != "" {
			parts = append(parts, title)
		}
		if year := strings.TrimSpace(mc.Year); year != "" {
			if len(year) > 4 {
				year = year[:4]
			}
			parts = append(parts, year)
		}
	}

	if q := quality.Normalize(qualityLabel); q != "" {
		parts = append(parts, q)
	}

	stem := Sanitize(strings.Join(parts, partSeparator))
	if stem == "" {
		return fallbackStem
	}
	return stem
}

// Extension returns the download extension for a stream URL: ".m3u8" for
// manifests, ".mp4" otherwise.
func Extension(streamURL string) string {
	if stream.IsManifestURL(streamURL) {
		return ".m3u8"
	}
	return ".mp4"
}

// SubtitleExtension infers the extension for a subtitle URL. Known text
// formats keep their extension; everything else is assumed WebVTT.
func SubtitleExtension(subtitleURL string) string {
	path := subtitleURL
	if u, err := url.Parse(subtitleURL); err == nil {
		path = u.Path
	}

	switch {
	case strings.HasSuffix(strings.ToLower(path), ".srt"):
		return ".srt"
	case strings.HasSuffix(strings.ToLower(path), ".ass"):
		return ".ass"
	default:
		return ".vtt"
	}
}
