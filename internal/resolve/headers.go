package resolve

import (
	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// TransportHeaders merges any transport headers the host captured for the
// active stream into a single canonical map. Both a nested headers object
// and loose top-level fields are accepted, under every known spelling.
func TransportHeaders(p *host.PlayData) stream.Headers {
	if p == nil {
		return nil
	}

	merged := stream.Headers{}

	if raw, ok := lookup(p.Fields, headerContainerKeys); ok {
		if container, ok := asMap(raw); ok {
			collectHeaders(container, merged)
		}
	}

	// Loose fields override the container: hosts that expose both tend to
	// keep the top-level fields fresher.
	collectHeaders(p.Fields, merged)

	if len(merged) == 0 {
		return nil
	}
	return merged
}

func collectHeaders(fields map[string]any, into stream.Headers) {
	for canonical, aliases := range headerAliases {
		if value, ok := lookupString(fields, aliases); ok {
			into[canonical] = value
		}
	}
}
