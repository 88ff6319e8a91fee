// Package host defines the boundary to the media-player platform the
// engine is embedded into. Everything here is an interface or a passive
// payload type: widget creation, event subscription, DOM scraping and the
// actual OS-level invocation all live on the other side of it.
package host

// Card is the media card metadata the host exposes for the item being
// played. The host may stop exposing it once playback starts, so callers
// cache the last known card for the session.
type Card struct {
	Title        string `json:"title"`
	Year         string `json:"year,omitempty"`
	Season       int    `json:"season,omitempty"`
	Episode      int    `json:"episode,omitempty"`
	EpisodeTitle string `json:"episodeTitle,omitempty"`
	IsSeries     bool   `json:"isSeries"`
}

// PlayData is the best-effort playback payload for the active session.
// Fields carries the raw host payload under whatever key spellings the
// host version uses; the resolve package owns the alias tables that read
// it. Field values may be nested maps, slices, or zero-argument accessor
// functions when the payload was captured in-process.
type PlayData struct {
	// CurrentURL is the single "current" URL the playback session reports.
	CurrentURL string `json:"currentUrl,omitempty"`

	// ElementSource is the playing element's source URL, if any. blob:
	// sources are useless for download and are ignored downstream.
	ElementSource string `json:"elementSource,omitempty"`

	Fields map[string]any `json:"fields,omitempty"`

	Card *Card `json:"card,omitempty"`
}

// MenuItem is one row of a host selection menu. Fields carries the raw
// item payload for generic URL scraping.
type MenuItem struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// Menu is a host selection menu about to be shown (or built by the
// engine). Tag marks menus the engine created itself so interception can
// bypass them.
type Menu struct {
	ID    string     `json:"id,omitempty"`
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
	Tag   string     `json:"tag,omitempty"`
}

// ShowAction tells the host what to do with a menu that passed through
// the before-show hook.
type ShowAction int

const (
	// ShowProceed displays the (possibly modified) menu normally.
	ShowProceed ShowAction = iota
	// ShowSuppress hides the menu; the engine has taken over the flow.
	ShowSuppress
)
