package resolve

import (
	"strings"

	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// MediaContext derives the playback media context from the session
// payload. fallbackCard is the last card captured earlier in the session,
// used when the host no longer exposes one at menu-open time.
func MediaContext(p *host.PlayData, fallbackCard *host.Card) stream.MediaContext {
	card := fallbackCard
	if p != nil && p.Card != nil {
		card = p.Card
	}

	var mc stream.MediaContext
	if card != nil {
		mc = stream.MediaContext{
			Title:        card.Title,
			Year:         card.Year,
			Season:       card.Season,
			Episode:      card.Episode,
			EpisodeTitle: card.EpisodeTitle,
			IsSeries:     card.IsSeries,
		}
	}

	if p == nil {
		return mc
	}

	// The session payload wins over card metadata for episode numbering;
	// the card describes the show, the payload describes what is playing.
	if season, ok := lookupInt(p.Fields, seasonKeys); ok && season > 0 {
		mc.Season = season
		mc.IsSeries = true
	}
	if episode, ok := lookupInt(p.Fields, episodeKeys); ok && episode > 0 {
		mc.Episode = episode
		mc.IsSeries = true
	}
	if title, ok := lookupString(p.Fields, episodeTitleKeys); ok {
		mc.EpisodeTitle = strings.TrimSpace(title)
	}

	if mc.Title == "" {
		if title, ok := lookupString(p.Fields, []string{"title", "name"}); ok {
			mc.Title = strings.TrimSpace(title)
		}
	}

	return mc
}
