// Package menu observes host selection menus, injects a Download action
// into action menus, and correlates the follow-up menu the host opens
// after a programmatic "copy link" re-trigger back to the pending
// download request. The two-step flow is an explicit state machine with
// a single in-flight request slot and a correlation timeout.
package menu

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/streamgrab/streamgrab/internal/dispatch"
	"github.com/streamgrab/streamgrab/internal/hls"
	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/probe"
	"github.com/streamgrab/streamgrab/internal/resolve"
	"github.com/streamgrab/streamgrab/internal/stream"
)

// State is the interception state.
type State int

const (
	// StateIdle means no download request is in flight.
	StateIdle State = iota
	// StateAwaitingMenu means a Download selection produced no direct URL
	// and the next host menu will be captured as the correlated quality
	// menu.
	StateAwaitingMenu
)

// menuTag marks menus this package built itself so interception bypasses
// them.
const menuTag = "streamgrab"

const defaultCorrelationTimeout = 15 * time.Second

// Config holds interception configuration.
type Config struct {
	// ActionLabels are the locale-specific substrings that identify a
	// host action menu by title.
	ActionLabels []string

	// CopyLinkLabels identify the host's own "copy link" entry, the one
	// re-triggered to force the correlated quality menu open.
	CopyLinkLabels []string

	// DownloadLabel is the title of the injected menu entry.
	DownloadLabel string

	// CorrelationTimeout bounds how long a pending request waits for the
	// correlated menu before it is dropped.
	CorrelationTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if len(c.ActionLabels) == 0 {
		c.ActionLabels = []string{"action"}
	}
	if len(c.CopyLinkLabels) == 0 {
		c.CopyLinkLabels = []string{"copy link", "copy url"}
	}
	if c.DownloadLabel == "" {
		c.DownloadLabel = "Download"
	}
	if c.CorrelationTimeout <= 0 {
		c.CorrelationTimeout = defaultCorrelationTimeout
	}
}

// pendingRequest is the single in-flight download request slot.
type pendingRequest struct {
	id        string
	context   stream.MediaContext
	headers   stream.Headers
	subtitles []stream.Subtitle
	timer     *time.Timer
}

// Interceptor is the menu interception state machine.
type Interceptor struct {
	collector  *resolve.Collector
	hls        *hls.Resolver
	prober     *probe.Prober
	dispatcher *dispatch.Dispatcher
	surface    host.MenuSurface
	notifier   host.Notifier
	logger     zerolog.Logger
	cfg        Config

	mu       sync.Mutex
	state    State
	pending  *pendingRequest
	lastCard *host.Card
}

// NewInterceptor creates an interceptor. It registers nothing itself;
// the host glue wires BeforeShow and OnDownload into its menu surface.
func NewInterceptor(collector *resolve.Collector, hlsResolver *hls.Resolver, prober *probe.Prober, dispatcher *dispatch.Dispatcher, surface host.MenuSurface, notifier host.Notifier, cfg Config, logger zerolog.Logger) *Interceptor {
	cfg.applyDefaults()

	return &Interceptor{
		collector:  collector,
		hls:        hlsResolver,
		prober:     prober,
		dispatcher: dispatcher,
		surface:    surface,
		notifier:   notifier,
		logger:     logger.With().Str("component", "menu").Logger(),
		cfg:        cfg,
	}
}

// State returns the current interception state.
func (i *Interceptor) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// BeforeShow inspects a host menu about to be displayed. It may inject a
// Download entry into an action menu, or capture the menu as the
// correlated quality menu of a pending request. Scrape failure fails
// open: the host menu always displays when interception cannot use it.
func (i *Interceptor) BeforeShow(menu *host.Menu, p *host.PlayData) host.ShowAction {
	if menu == nil || menu.Tag == menuTag {
		return host.ShowProceed
	}

	i.captureCard(p)

	i.mu.Lock()
	if i.state == StateAwaitingMenu {
		req := i.takePendingLocked()
		i.mu.Unlock()
		return i.correlate(menu, req)
	}
	i.mu.Unlock()

	if i.isActionMenu(menu.Title) {
		menu.Items = append(menu.Items, host.MenuItem{Title: i.cfg.DownloadLabel})
		i.logger.Debug().Str("menu", menu.Title).Msg("download entry injected")
	}
	return host.ShowProceed
}

// DownloadIndex reports whether index is the Download entry this
// interceptor injected into menu.
func (i *Interceptor) DownloadIndex(menu *host.Menu, index int) bool {
	if menu == nil || index < 0 || index >= len(menu.Items) {
		return false
	}
	return menu.Items[index].Title == i.cfg.DownloadLabel
}

// OnDownload handles the user selecting the injected Download entry.
// With a directly resolvable URL it goes straight to the quality
// selector; otherwise it arms the pending slot and re-triggers the
// host's copy-link entry to force the correlated menu open. A second
// Download selection while one is pending overwrites the earlier
// request.
func (i *Interceptor) OnDownload(menu *host.Menu, p *host.PlayData) {
	i.captureCard(p)

	i.mu.Lock()
	card := i.lastCard
	i.mu.Unlock()

	mediaCtx := resolve.MediaContext(p, card)
	headers := resolve.TransportHeaders(p)
	subtitles := resolve.Subtitles(p)

	if candidates := i.collector.Collect(p, menu); len(candidates) > 0 {
		i.showQualityMenu(candidates, mediaCtx, headers, subtitles)
		return
	}

	copyIdx := i.copyLinkIndex(menu)
	if copyIdx < 0 {
		i.logger.Debug().Msg("no direct URL and no copy-link entry to re-trigger")
		i.notifier.Notify("URL not found")
		return
	}

	i.arm(mediaCtx, headers, subtitles)
	i.surface.Trigger(*menu, copyIdx)
}

// arm replaces the pending slot and transitions to awaiting.
func (i *Interceptor) arm(mediaCtx stream.MediaContext, headers stream.Headers, subtitles []stream.Subtitle) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.pending != nil {
		i.pending.timer.Stop()
	}

	id := uuid.NewString()
	req := &pendingRequest{
		id:        id,
		context:   mediaCtx,
		headers:   headers,
		subtitles: subtitles,
	}
	req.timer = time.AfterFunc(i.cfg.CorrelationTimeout, func() { i.expire(id) })

	i.pending = req
	i.state = StateAwaitingMenu
	i.logger.Debug().Str("request", id).Msg("awaiting correlated menu")
}

// expire drops a pending request whose correlated menu never arrived.
func (i *Interceptor) expire(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.pending == nil || i.pending.id != id {
		return
	}
	i.pending = nil
	i.state = StateIdle
	i.logger.Debug().Str("request", id).Msg("correlation timed out")
}

// takePendingLocked clears the pending slot and returns it. Caller holds
// the mutex.
func (i *Interceptor) takePendingLocked() *pendingRequest {
	req := i.pending
	if req != nil {
		req.timer.Stop()
	}
	i.pending = nil
	i.state = StateIdle
	return req
}

// correlate scrapes the captured menu for the pending request. Zero
// scraped URLs lets the host menu display normally.
func (i *Interceptor) correlate(menu *host.Menu, req *pendingRequest) host.ShowAction {
	if req == nil {
		return host.ShowProceed
	}

	candidates := i.collector.ScrapeMenu(menu)
	if len(candidates) == 0 {
		i.logger.Debug().Str("menu", menu.Title).Msg("correlated menu yielded no URLs")
		return host.ShowProceed
	}

	i.logger.Debug().
		Str("menu", menu.Title).
		Int("candidates", len(candidates)).
		Msg("correlated menu captured")

	// The host may have rendered the menu before asking; dismiss it so the
	// quality selector replaces it.
	i.surface.Close()
	i.showQualityMenu(candidates, req.context, req.headers, req.subtitles)
	return host.ShowSuppress
}

func (i *Interceptor) captureCard(p *host.PlayData) {
	if p == nil || p.Card == nil {
		return
	}
	i.mu.Lock()
	i.lastCard = p.Card
	i.mu.Unlock()
}

func (i *Interceptor) isActionMenu(title string) bool {
	lower := strings.ToLower(title)
	for _, label := range i.cfg.ActionLabels {
		if strings.Contains(lower, strings.ToLower(label)) {
			return true
		}
	}
	return false
}

func (i *Interceptor) copyLinkIndex(menu *host.Menu) int {
	if menu == nil {
		return -1
	}
	for idx, item := range menu.Items {
		lower := strings.ToLower(item.Title)
		for _, label := range i.cfg.CopyLinkLabels {
			if strings.Contains(lower, strings.ToLower(label)) {
				return idx
			}
		}
	}
	return -1
}
