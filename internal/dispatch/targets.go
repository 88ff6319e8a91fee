package dispatch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects the invocation contract of a target.
type Mode string

const (
	// ModeIntent sends an Android intent:// URL carrying the stream URL
	// as shared text.
	ModeIntent Mode = "intent"
	// ModeDirect opens the stream URL itself, decorated with the
	// filename fragment the download manager understands.
	ModeDirect Mode = "direct"
)

// Target is one external download/share application: an identifier plus
// its invocation contract. Read-only configuration data.
type Target struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Package     string `yaml:"package" json:"package"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Mode        Mode   `yaml:"mode,omitempty" json:"mode,omitempty"`
	// AcceptsHeaders marks targets whose intent surface understands
	// embedded transport-header extras.
	AcceptsHeaders bool `yaml:"acceptsHeaders,omitempty" json:"acceptsHeaders,omitempty"`
}

// DefaultTargets returns the built-in target table.
func DefaultTargets() []Target {
	return []Target{
		{ID: "seal", Name: "Seal", Package: "com.junkfood.seal", Description: "Material You design", Mode: ModeIntent},
		{ID: "ytdlnis", Name: "YTDLnis", Package: "com.deniscerri.ytdlnis", Description: "Advanced features", Mode: ModeIntent},
		{ID: "adm", Name: "ADM", Package: "com.dv.adm", Description: "Multi-threaded", Mode: ModeIntent, AcceptsHeaders: true},
		{ID: "1dm", Name: "1DM", Package: "idm.internet.download.manager", Description: "Fast downloads", Mode: ModeIntent, AcceptsHeaders: true},
	}
}

// Registry holds the configured download targets.
type Registry struct {
	targets []Target
}

// NewRegistry creates a registry from an explicit target list, falling
// back to the built-in table when the list is empty.
func NewRegistry(targets []Target) *Registry {
	if len(targets) == 0 {
		targets = DefaultTargets()
	}
	for i := range targets {
		if targets[i].Mode == "" {
			targets[i].Mode = ModeIntent
		}
	}
	return &Registry{targets: targets}
}

// LoadRegistry reads a YAML target file. An empty path yields the
// built-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	var file struct {
		Targets []Target `yaml:"targets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse targets file: %w", err)
	}

	return NewRegistry(file.Targets), nil
}

// All returns every configured target.
func (r *Registry) All() []Target {
	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// ByID looks up a target by identifier.
func (r *Registry) ByID(id string) (Target, bool) {
	for _, t := range r.targets {
		if t.ID == id {
			return t, true
		}
	}
	return Target{}, false
}
