// Package resolve discovers playable URLs for the active playback session
// by probing heterogeneous host data sources in priority order. The
// heuristic nature of the discovery is kept testable by modeling each
// origin as a named extraction strategy.
package resolve

import (
	"github.com/rs/zerolog"

	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// Collector produces the deduplicated candidate list for the current
// playback session.
type Collector struct {
	strategies []Strategy
	logger     zerolog.Logger
}

// NewCollector creates a collector with the default strategy chain.
func NewCollector(logger zerolog.Logger) *Collector {
	return &Collector{
		strategies: defaultStrategies(),
		logger:     logger.With().Str("component", "resolve").Logger(),
	}
}

// Collect runs the strategy chain and returns the candidates of the first
// strategy that yields any. An empty result means "no playable URL
// resolvable"; callers must surface that rather than guessing.
func (c *Collector) Collect(p *host.PlayData, menu *host.Menu) []stream.Candidate {
	for _, strategy := range c.strategies {
		candidates, ok := strategy.Extract(p, menu).Get()
		if !ok || len(candidates) == 0 {
			continue
		}

		candidates = finalize(candidates)
		if len(candidates) == 0 {
			continue
		}

		c.logger.Debug().
			Str("strategy", strategy.Name()).
			Int("candidates", len(candidates)).
			Msg("candidates resolved")
		return candidates
	}

	c.logger.Debug().Msg("no playable URL resolvable")
	return nil
}

// ScrapeMenu extracts candidates from a single menu using only the
// generic item scraper, for the correlated-menu flow.
func (c *Collector) ScrapeMenu(menu *host.Menu) []stream.Candidate {
	return finalize(ScrapeMenuItems(menu))
}

// finalize unwraps proxy URLs, deduplicates by exact URL and orders by
// descending bandwidth where bandwidth is known (stable, so unknown
// entries keep discovery order).
func finalize(candidates []stream.Candidate) []stream.Candidate {
	for i := range candidates {
		candidates[i].URL = UnwrapProxy(candidates[i].URL)
	}

	candidates = stream.Dedupe(candidates)
	if stream.HasKnownBandwidth(candidates) {
		stream.SortByBandwidth(candidates)
	}
	return candidates
}
