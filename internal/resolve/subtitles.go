package resolve

import (
	"strings"

	"github.com/samber/lo"

	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// Subtitles scans the session payload for companion subtitle tracks:
// explicit subtitle arrays, a label -> URL map, or generic track arrays
// with a subtitles kind.
func Subtitles(p *host.PlayData) []stream.Subtitle {
	if p == nil {
		return nil
	}

	var subs []stream.Subtitle

	if raw, ok := lookup(p.Fields, subtitleKeys); ok {
		subs = append(subs, subtitlesFromValue(raw)...)
	}

	if raw, ok := lookup(p.Fields, subtitleTrackKeys); ok {
		if entries, ok := asSlice(raw); ok {
			for _, entry := range entries {
				fields, ok := asMap(entry)
				if !ok {
					continue
				}
				if !isSubtitleKind(fields) {
					continue
				}
				if sub, ok := subtitleFromFields(fields); ok {
					subs = append(subs, sub)
				}
			}
		}
	}

	return lo.UniqBy(subs, func(s stream.Subtitle) string { return s.URL })
}

// subtitlesFromValue handles the two explicit shapes: an array of track
// objects, or a flat label -> URL map.
func subtitlesFromValue(raw any) []stream.Subtitle {
	var subs []stream.Subtitle

	if entries, ok := asSlice(raw); ok {
		for _, entry := range entries {
			fields, ok := asMap(entry)
			if !ok {
				continue
			}
			if sub, ok := subtitleFromFields(fields); ok {
				subs = append(subs, sub)
			}
		}
		return subs
	}

	if m, ok := asMap(raw); ok {
		// Could itself be a single track object.
		if sub, ok := subtitleFromFields(m); ok {
			return []stream.Subtitle{sub}
		}
		for label, v := range m {
			if u, ok := asHTTPString(v); ok {
				subs = append(subs, stream.Subtitle{Label: label, URL: u})
			}
		}
	}

	return subs
}

func subtitleFromFields(fields map[string]any) (stream.Subtitle, bool) {
	u, ok := firstHTTPField(fields)
	if !ok {
		return stream.Subtitle{}, false
	}

	label, _ := lookupString(fields, subtitleLabelKeys)
	return stream.Subtitle{Label: label, URL: u}, true
}

func isSubtitleKind(fields map[string]any) bool {
	kind, ok := lookupString(fields, []string{"kind", "type"})
	if !ok {
		return false
	}
	kind = strings.ToLower(kind)
	return kind == "subtitles" || kind == "subtitle" || kind == "captions"
}
