package resolve

import (
	"testing"

	"github.com/streamgrab/streamgrab/internal/host"
)

func TestMediaContext_CardAndPayload(t *testing.T) {
	p := &host.PlayData{
		Card: &host.Card{Title: "Show", IsSeries: true},
		Fields: map[string]any{
			"season":        float64(2), // JSON numbers decode as float64
			"episode":       "7",
			"episode_title": " The One ",
		},
	}

	mc := MediaContext(p, nil)

	if mc.Title != "Show" || !mc.IsSeries {
		t.Errorf("context title/series = %q/%v", mc.Title, mc.IsSeries)
	}
	if mc.Season != 2 || mc.Episode != 7 {
		t.Errorf("S%02dE%02d, want S02E07", mc.Season, mc.Episode)
	}
	if mc.EpisodeTitle != "The One" {
		t.Errorf("episode title = %q", mc.EpisodeTitle)
	}
}

func TestMediaContext_FallbackCard(t *testing.T) {
	fallback := &host.Card{Title: "Cached Show", IsSeries: true, Season: 1}

	mc := MediaContext(&host.PlayData{}, fallback)
	if mc.Title != "Cached Show" {
		t.Errorf("title = %q, want last known card title", mc.Title)
	}

	// A fresh card wins over the cached one.
	p := &host.PlayData{Card: &host.Card{Title: "Live Show"}}
	mc = MediaContext(p, fallback)
	if mc.Title != "Live Show" {
		t.Errorf("title = %q, want live card title", mc.Title)
	}
}

func TestMediaContext_TitleFromFields(t *testing.T) {
	p := &host.PlayData{Fields: map[string]any{"name": "Loose Title"}}

	mc := MediaContext(p, nil)
	if mc.Title != "Loose Title" {
		t.Errorf("title = %q", mc.Title)
	}
}

func TestSubtitles_Array(t *testing.T) {
	p := &host.PlayData{Fields: map[string]any{
		"subtitles": []any{
			map[string]any{"url": "https://cdn.example.com/en.srt", "label": "English"},
			map[string]any{"url": "https://cdn.example.com/de.vtt", "language": "Deutsch"},
			map[string]any{"label": "broken, no url"},
		},
	}}

	subs := Subtitles(p)
	if len(subs) != 2 {
		t.Fatalf("Subtitles() returned %d, want 2", len(subs))
	}
	if subs[0].Label != "English" {
		t.Errorf("label = %q", subs[0].Label)
	}
}

func TestSubtitles_LabelMap(t *testing.T) {
	p := &host.PlayData{Fields: map[string]any{
		"subs": map[string]any{
			"English": "https://cdn.example.com/en.srt",
			"Deutsch": "https://cdn.example.com/de.srt",
		},
	}}

	subs := Subtitles(p)
	if len(subs) != 2 {
		t.Fatalf("Subtitles() returned %d, want 2", len(subs))
	}
}

func TestSubtitles_KindTracks(t *testing.T) {
	p := &host.PlayData{Fields: map[string]any{
		"tracks": []any{
			map[string]any{"kind": "subtitles", "url": "https://cdn.example.com/en.vtt", "label": "en"},
			map[string]any{"kind": "audio", "url": "https://cdn.example.com/audio.aac"},
		},
	}}

	subs := Subtitles(p)
	if len(subs) != 1 {
		t.Fatalf("Subtitles() returned %d, want 1", len(subs))
	}
	if subs[0].URL != "https://cdn.example.com/en.vtt" {
		t.Errorf("URL = %s", subs[0].URL)
	}
}

func TestSubtitles_DeduplicatesAcrossSources(t *testing.T) {
	p := &host.PlayData{Fields: map[string]any{
		"subtitles": []any{
			map[string]any{"url": "https://cdn.example.com/en.srt", "label": "English"},
		},
		"tracks": []any{
			map[string]any{"kind": "subtitles", "url": "https://cdn.example.com/en.srt"},
		},
	}}

	subs := Subtitles(p)
	if len(subs) != 1 {
		t.Fatalf("Subtitles() returned %d, want 1 after dedupe", len(subs))
	}
}

func TestTransportHeaders(t *testing.T) {
	p := &host.PlayData{Fields: map[string]any{
		"headers": map[string]any{
			"referer": "https://site.example.com/",
			"ua":      "Mozilla/5.0",
		},
		"cookies": "session=abc",
	}}

	h := TransportHeaders(p)
	if h["Referer"] != "https://site.example.com/" {
		t.Errorf("Referer = %q", h["Referer"])
	}
	if h["User-Agent"] != "Mozilla/5.0" {
		t.Errorf("User-Agent = %q", h["User-Agent"])
	}
	if h["Cookie"] != "session=abc" {
		t.Errorf("Cookie = %q", h["Cookie"])
	}
	if _, ok := h["Origin"]; ok {
		t.Error("Origin should be absent")
	}
}

func TestTransportHeaders_Empty(t *testing.T) {
	if h := TransportHeaders(&host.PlayData{}); h != nil {
		t.Errorf("TransportHeaders() = %v, want nil", h)
	}
}
