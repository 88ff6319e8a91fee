package stream

import (
	"net/url"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// IsHTTPURL reports whether s is an absolute http or https URL.
func IsHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsManifestURL reports whether the URL points at an HLS playlist.
// The check looks at the path only so query strings don't confuse it.
func IsManifestURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return strings.Contains(strings.ToLower(s), ".m3u8")
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".m3u8")
}

// Dedupe removes candidates sharing the same exact URL, keeping the first
// occurrence. Order is otherwise preserved.
func Dedupe(candidates []Candidate) []Candidate {
	return lo.UniqBy(candidates, func(c Candidate) string { return c.URL })
}

// SortByBandwidth orders candidates by descending bandwidth. The sort is
// stable so candidates with equal (or unknown) bandwidth keep their
// discovery order.
func SortByBandwidth(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Bandwidth > candidates[j].Bandwidth
	})
}

// HasKnownBandwidth reports whether any candidate carries a bandwidth value.
func HasKnownBandwidth(candidates []Candidate) bool {
	return lo.SomeBy(candidates, func(c Candidate) bool { return c.Bandwidth > 0 })
}
