package resolve

import (
	"sort"

	"github.com/samber/mo"

	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/quality"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// Strategy is one named extraction heuristic. Strategies are tried in
// priority order and the first non-empty result wins; they are never
// merged, so near-duplicate entries from different origins cannot end up
// in the same menu.
type Strategy interface {
	Name() string
	Extract(p *host.PlayData, menu *host.Menu) mo.Option[[]stream.Candidate]
}

// defaultStrategies returns the built-in strategy chain in precedence
// order.
func defaultStrategies() []Strategy {
	return []Strategy{
		qualityMapStrategy{},
		playlistStrategy{},
		menuItemsStrategy{},
		currentSourceStrategy{},
	}
}

// qualityMapStrategy reads the structured quality-label -> URL map of the
// current playback session.
type qualityMapStrategy struct{}

func (qualityMapStrategy) Name() string { return "qualityMap" }

func (qualityMapStrategy) Extract(p *host.PlayData, _ *host.Menu) mo.Option[[]stream.Candidate] {
	if p == nil {
		return mo.None[[]stream.Candidate]()
	}

	raw, ok := lookup(p.Fields, qualityMapKeys)
	if !ok {
		return mo.None[[]stream.Candidate]()
	}

	m, ok := asMap(raw)
	if !ok {
		return mo.None[[]stream.Candidate]()
	}

	var candidates []stream.Candidate
	for label, v := range m {
		u, ok := asHTTPString(v)
		if !ok {
			continue
		}
		candidates = append(candidates, stream.Candidate{
			URL:     u,
			Quality: quality.Normalize(label),
			Origin:  stream.OriginPlayData,
		})
	}

	if len(candidates) == 0 {
		return mo.None[[]stream.Candidate]()
	}

	// Map iteration order is random; order by declining height so the
	// result is deterministic and best-first.
	sort.SliceStable(candidates, func(i, j int) bool {
		return quality.Height(candidates[i].Quality) > quality.Height(candidates[j].Quality)
	})

	return mo.Some(candidates)
}

// playlistStrategy reads an array of alternate renditions.
type playlistStrategy struct{}

func (playlistStrategy) Name() string { return "playlist" }

func (playlistStrategy) Extract(p *host.PlayData, _ *host.Menu) mo.Option[[]stream.Candidate] {
	if p == nil {
		return mo.None[[]stream.Candidate]()
	}

	raw, ok := lookup(p.Fields, playlistKeys)
	if !ok {
		return mo.None[[]stream.Candidate]()
	}

	entries, ok := asSlice(raw)
	if !ok {
		return mo.None[[]stream.Candidate]()
	}

	var candidates []stream.Candidate
	for _, entry := range entries {
		fields, ok := asMap(entry)
		if !ok {
			continue
		}

		u, ok := firstHTTPField(fields)
		if !ok {
			continue
		}

		c := stream.Candidate{URL: u, Origin: stream.OriginPlayData}
		if label, ok := lookupString(fields, qualityFieldNames); ok {
			c.Quality = quality.Normalize(label)
		}
		if bw, ok := lookupInt(fields, bandwidthFieldNames); ok && bw > 0 {
			c.Bandwidth = bw
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return mo.None[[]stream.Candidate]()
	}
	return mo.Some(candidates)
}

// menuItemsStrategy generically scrapes an open host menu's items: the
// fixed URL field names, zero-argument accessors yielding http(s)
// strings, and one level of nested map recursion.
type menuItemsStrategy struct{}

func (menuItemsStrategy) Name() string { return "menuItems" }

func (menuItemsStrategy) Extract(_ *host.PlayData, menu *host.Menu) mo.Option[[]stream.Candidate] {
	if menu == nil {
		return mo.None[[]stream.Candidate]()
	}

	candidates := ScrapeMenuItems(menu)
	if len(candidates) == 0 {
		return mo.None[[]stream.Candidate]()
	}
	return mo.Some(candidates)
}

// ScrapeMenuItems extracts one candidate per menu item exposing a usable
// URL. Exported because the correlated-menu flow scrapes a menu directly
// without running the full strategy chain.
func ScrapeMenuItems(menu *host.Menu) []stream.Candidate {
	var candidates []stream.Candidate

	for _, item := range menu.Items {
		u, ok := itemURL(item.Fields)
		if !ok {
			continue
		}

		label := item.Title
		if fieldLabel, ok := lookupString(item.Fields, qualityFieldNames); ok {
			label = fieldLabel
		}

		candidates = append(candidates, stream.Candidate{
			URL:     u,
			Quality: quality.Normalize(label),
			Origin:  stream.OriginMenuItem,
		})
	}

	return candidates
}

// itemURL probes one item's fields: named URL fields first, then any
// accessor function, then one level into nested maps.
func itemURL(fields map[string]any) (string, bool) {
	if u, ok := firstHTTPField(fields); ok {
		return u, true
	}

	for _, v := range fields {
		switch v.(type) {
		case func() string, func() any:
			if u, ok := asHTTPString(v); ok {
				return u, true
			}
		}
	}

	for _, v := range fields {
		nested, ok := asMap(v)
		if !ok {
			continue
		}
		if u, ok := firstHTTPField(nested); ok {
			return u, true
		}
	}

	return "", false
}

// firstHTTPField checks the fixed candidate field names in order.
func firstHTTPField(fields map[string]any) (string, bool) {
	for _, name := range urlFieldNames {
		if v, ok := fields[name]; ok {
			if u, ok := asHTTPString(v); ok {
				return u, true
			}
		}
	}
	return "", false
}

// currentSourceStrategy falls back to the playing element's source and
// the session's single "current" URL.
type currentSourceStrategy struct{}

func (currentSourceStrategy) Name() string { return "currentSource" }

func (currentSourceStrategy) Extract(p *host.PlayData, _ *host.Menu) mo.Option[[]stream.Candidate] {
	if p == nil {
		return mo.None[[]stream.Candidate]()
	}

	var candidates []stream.Candidate
	if stream.IsHTTPURL(p.CurrentURL) {
		candidates = append(candidates, stream.Candidate{
			URL:    p.CurrentURL,
			Origin: stream.OriginPlayData,
		})
	}
	if stream.IsHTTPURL(p.ElementSource) {
		candidates = append(candidates, stream.Candidate{
			URL:    p.ElementSource,
			Origin: stream.OriginDOMVideo,
		})
	}

	if len(candidates) == 0 {
		return mo.None[[]stream.Candidate]()
	}
	return mo.Some(candidates)
}
