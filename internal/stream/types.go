// Package stream defines the shared value types of the resolution engine:
// playable candidates, playback media context, subtitle tracks and
// transport headers. All of it is per-playback data with no lifetime
// beyond the current player session.
package stream

// Origin identifies which discovery source produced a candidate.
type Origin string

const (
	OriginPlayData   Origin = "playdata"
	OriginDOMVideo   Origin = "domVideo"
	OriginMenuItem   Origin = "menuItem"
	OriginHLSVariant Origin = "hlsVariant"
)

// Candidate is one playable URL plus its quality metadata.
type Candidate struct {
	URL       string `json:"url"`
	Quality   string `json:"quality,omitempty"`
	Bandwidth int    `json:"bandwidth,omitempty"` // bits per second, 0 when unknown
	Origin    Origin `json:"origin,omitempty"`
}

// MediaContext describes what is currently playing, derived from host
// card/player metadata at menu-open time.
type MediaContext struct {
	Title        string `json:"title"`
	Year         string `json:"year,omitempty"`
	Season       int    `json:"season,omitempty"`
	Episode      int    `json:"episode,omitempty"`
	EpisodeTitle string `json:"episodeTitle,omitempty"`
	IsSeries     bool   `json:"isSeries"`
}

// Subtitle is a companion subtitle track discovered alongside a stream.
type Subtitle struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// Headers is a merged map of transport headers the host captured for the
// active stream (Referer, User-Agent, Cookie, Origin).
type Headers map[string]string
