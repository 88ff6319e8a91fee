// Package quality normalizes the heterogeneous quality labels exposed by
// the host into a canonical "<height>p" form where possible.
package quality

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Label patterns, tried in priority order.
var (
	dimensionsPattern = regexp.MustCompile(`^(\d{3,4})[xX](\d{3,4})$`)
	heightPPattern    = regexp.MustCompile(`(?i)^\d{3,4}p$`)
	bareHeightPattern = regexp.MustCompile(`^\d{3,4}$`)
)

// Normalize converts a raw quality label into canonical form:
// "1920x1080" -> "1080p", "720P" -> "720p", "720" -> "720p". Labels that
// match none of the patterns (bandwidth strings, free text) pass through
// unchanged. Empty input yields empty output.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := dimensionsPattern.FindStringSubmatch(s); m != nil {
		return m[2] + "p"
	}

	if heightPPattern.MatchString(s) {
		return strings.ToLower(s)
	}

	if bareHeightPattern.MatchString(s) {
		return s + "p"
	}

	return raw
}

// FromBandwidth derives a display label from a bandwidth value, e.g.
// 850000 -> "850kbps". Returns empty for non-positive input.
func FromBandwidth(bitsPerSec int) string {
	if bitsPerSec <= 0 {
		return ""
	}
	return strconv.Itoa(int(math.Round(float64(bitsPerSec)/1000))) + "kbps"
}

// Height extracts the numeric height from a normalized label, 0 if the
// label is not of the "<height>p" form. Used to order quality-map entries
// when no bandwidth is known.
func Height(label string) int {
	n := Normalize(label)
	if !heightPPattern.MatchString(n) {
		return 0
	}
	h, _ := strconv.Atoi(strings.TrimSuffix(n, "p"))
	return h
}
