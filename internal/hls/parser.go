package hls

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/streamgrab/streamgrab/internal/quality"
	"github.com/streamgrab/streamgrab/internal/stream"
)

const tagStreamInf = "#EXT-X-STREAM-INF:"

var (
	bandwidthAttr  = regexp.MustCompile(`BANDWIDTH=(\d+)`)
	resolutionAttr = regexp.MustCompile(`RESOLUTION=(\d+[xX]\d+)`)
)

// HasStreamInfo reports whether the playlist body contains variant stream
// tags, i.e. whether it is a master playlist worth parsing.
func HasStreamInfo(body string) bool {
	return strings.Contains(body, tagStreamInf)
}

// ParseMaster parses an HLS master playlist into stream candidates. Each
// #EXT-X-STREAM-INF line introduces one variant; the next non-comment,
// non-blank line is its URI. Variants come back sorted by descending
// bandwidth (stable, ties keep encounter order).
func ParseMaster(body, manifestURL string) []stream.Candidate {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var variants []stream.Candidate

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, tagStreamInf) {
			continue
		}

		bandwidth := 0
		if m := bandwidthAttr.FindStringSubmatch(line); m != nil {
			bandwidth, _ = strconv.Atoi(m[1])
		}

		resolution := ""
		if m := resolutionAttr.FindStringSubmatch(line); m != nil {
			resolution = m[1]
		}

		uri := nextURILine(lines, i+1)
		if uri == "" {
			continue
		}

		variants = append(variants, stream.Candidate{
			URL:       resolveVariantURL(manifestURL, uri),
			Quality:   variantLabel(resolution, bandwidth),
			Bandwidth: bandwidth,
			Origin:    stream.OriginHLSVariant,
		})
	}

	stream.SortByBandwidth(variants)
	return variants
}

// nextURILine returns the first non-comment, non-blank line at or after
// index start.
func nextURILine(lines []string, start int) string {
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}

// resolveVariantURL resolves a variant URI against the manifest's own
// directory: relative URIs replace the last path segment of the manifest
// URL.
func resolveVariantURL(manifestURL, uri string) string {
	if stream.IsHTTPURL(uri) {
		return uri
	}

	base, err := url.Parse(manifestURL)
	if err != nil {
		// Degrade to plain last-segment replacement.
		if idx := strings.LastIndex(manifestURL, "/"); idx >= 0 {
			return manifestURL[:idx+1] + uri
		}
		return uri
	}

	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	return base.ResolveReference(ref).String()
}

// variantLabel picks the display quality for a variant: the normalized
// resolution when present, a bandwidth-derived label otherwise, "Stream"
// as a last resort.
func variantLabel(resolution string, bandwidth int) string {
	if resolution != "" {
		return quality.Normalize(resolution)
	}
	if label := quality.FromBandwidth(bandwidth); label != "" {
		return label
	}
	return "Stream"
}
