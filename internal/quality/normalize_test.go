package quality

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dimensions", "1920x1080", "1080p"},
		{"dimensions 720", "1280x720", "720p"},
		{"dimensions upper x", "1280X720", "720p"},
		{"already canonical", "1080p", "1080p"},
		{"upper case p", "720P", "720p"},
		{"bare height", "720", "720p"},
		{"bare 4-digit height", "2160", "2160p"},
		{"bandwidth label passes through", "850kbps", "850kbps"},
		{"free text passes through", "Auto", "Auto"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromBandwidth(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want string
	}{
		{"rounds down", 850400, "850kbps"},
		{"rounds up", 1499600, "1500kbps"},
		{"zero", 0, ""},
		{"negative", -5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromBandwidth(tt.in); got != tt.want {
				t.Errorf("FromBandwidth(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHeight(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1080p", 1080},
		{"1920x1080", 1080},
		{"720", 720},
		{"850kbps", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := Height(tt.in); got != tt.want {
			t.Errorf("Height(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
