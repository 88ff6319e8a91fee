package naming

import (
	"strings"
	"testing"

	"github.com/streamgrab/streamgrab/internal/stream"
)

func TestStem_Series(t *testing.T) {
	mc := stream.MediaContext{
		Title:        "Show",
		Season:       1,
		Episode:      5,
		EpisodeTitle: "Pilot",
		IsSeries:     true,
	}

	got := Stem(mc, "1080p")
	want := "Show - S01E05 - Pilot - 1080p"
	if got != want {
		t.Errorf("Stem() = %q, want %q", got, want)
	}
}

func TestStem_Movie(t *testing.T) {
	mc := stream.MediaContext{Title: "Movie", Year: "2024"}

	got := Stem(mc, "")
	want := "Movie - 2024"
	if got != want {
		t.Errorf("Stem() = %q, want %q", got, want)
	}
}

func TestStem_YearTruncated(t *testing.T) {
	mc := stream.MediaContext{Title: "Movie", Year: "2024-06-01"}

	got := Stem(mc, "")
	want := "Movie - 2024"
	if got != want {
		t.Errorf("Stem() = %q, want %q", got, want)
	}
}

func TestStem_EpisodeTitleEqualsSeriesTitle(t *testing.T) {
	mc := stream.MediaContext{
		Title:        "Show",
		Season:       2,
		Episode:      3,
		EpisodeTitle: "show",
		IsSeries:     true,
	}

	got := Stem(mc, "720")
	want := "Show - S02E03 - 720p"
	if got != want {
		t.Errorf("Stem() = %q, want %q", got, want)
	}
}

func TestStem_QualityNormalized(t *testing.T) {
	mc := stream.MediaContext{Title: "Movie", Year: "2020"}

	got := Stem(mc, "1920x1080")
	want := "Movie - 2020 - 1080p"
	if got != want {
		t.Errorf("Stem() = %q, want %q", got, want)
	}
}

func TestStem_IllegalCharactersStripped(t *testing.T) {
	mc := stream.MediaContext{Title: `Wh<a>t: "If"? /\ Part|2*`, Year: "2021"}

	got := Stem(mc, "")
	for _, r := range got {
		if isIllegalChar(r) {
			t.Fatalf("illegal character %q in output %q", r, got)
		}
	}
}

func TestStem_EmptyContextFallsBack(t *testing.T) {
	got := Stem(stream.MediaContext{}, "")
	if got != "video" {
		t.Errorf("Stem() = %q, want %q", got, "video")
	}
}

func TestStem_Deterministic(t *testing.T) {
	mc := stream.MediaContext{
		Title:        "Show",
		Season:       1,
		Episode:      1,
		EpisodeTitle: "First",
		IsSeries:     true,
	}

	first := Stem(mc, "720p")
	for i := 0; i < 10; i++ {
		if got := Stem(mc, "720p"); got != first {
			t.Fatalf("Stem() not deterministic: %q != %q", got, first)
		}
	}
}

func TestSanitize_ReservedNames(t *testing.T) {
	got := Sanitize("CON")
	if strings.EqualFold(got, "CON") {
		t.Errorf("Sanitize(%q) = %q, reserved name not avoided", "CON", got)
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/master.m3u8", ".m3u8"},
		{"https://cdn.example.com/master.m3u8?token=1", ".m3u8"},
		{"https://cdn.example.com/video.mp4", ".mp4"},
		{"https://cdn.example.com/video", ".mp4"},
	}

	for _, tt := range tests {
		if got := Extension(tt.url); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestSubtitleExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/sub.srt", ".srt"},
		{"https://cdn.example.com/sub.SRT?x=1", ".srt"},
		{"https://cdn.example.com/sub.ass", ".ass"},
		{"https://cdn.example.com/sub.vtt", ".vtt"},
		{"https://cdn.example.com/sub", ".vtt"},
	}

	for _, tt := range tests {
		if got := SubtitleExtension(tt.url); got != tt.want {
			t.Errorf("SubtitleExtension(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
