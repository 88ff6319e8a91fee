package menu

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/streamgrab/streamgrab/internal/dispatch"
	"github.com/streamgrab/streamgrab/internal/hls"
	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/probe"
	"github.com/streamgrab/streamgrab/internal/resolve"
	"github.com/streamgrab/streamgrab/internal/testutil"
)

type shownMenu struct {
	menu     host.Menu
	onSelect func(int)
}

type rowUpdate struct {
	menuID   string
	index    int
	subtitle string
}

type fakeSurface struct {
	mu        sync.Mutex
	shown     []shownMenu
	updates   []rowUpdate
	triggered []int
}

func (f *fakeSurface) Show(menu host.Menu, onSelect func(int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, shownMenu{menu: menu, onSelect: onSelect})
}

func (f *fakeSurface) Update(menuID string, index int, subtitle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, rowUpdate{menuID: menuID, index: index, subtitle: subtitle})
}

func (f *fakeSurface) Close() {}

func (f *fakeSurface) Trigger(_ host.Menu, index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered = append(f.triggered, index)
}

func (f *fakeSurface) shownCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shown)
}

func (f *fakeSurface) lastShown(t *testing.T) shownMenu {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.shown) == 0 {
		t.Fatal("no menu was shown")
	}
	return f.shown[len(f.shown)-1]
}

func (f *fakeSurface) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

type fakeInvoker struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeInvoker) Open(url string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return nil
}

type fakeClipboard struct{ texts []string }

func (f *fakeClipboard) Copy(text string) error {
	f.texts = append(f.texts, text)
	return nil
}

type fakeSharer struct{}

func (fakeSharer) Share(_, _ string) error { return nil }

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

type fixture struct {
	interceptor *Interceptor
	surface     *fakeSurface
	invoker     *fakeInvoker
	clipboard   *fakeClipboard
	notifier    *fakeNotifier
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	logger := testutil.NopLogger()
	f := &fixture{
		surface:   &fakeSurface{},
		invoker:   &fakeInvoker{},
		clipboard: &fakeClipboard{},
		notifier:  &fakeNotifier{},
	}

	dispatcher := dispatch.NewDispatcher(
		dispatch.NewRegistry(nil), f.invoker, f.clipboard, fakeSharer{}, f.notifier,
		dispatch.Config{SubtitleStagger: time.Millisecond}, logger,
	)

	f.interceptor = NewInterceptor(
		resolve.NewCollector(logger),
		hls.NewResolver(hls.Config{Timeout: time.Second}, logger),
		probe.NewProber(probe.Config{Timeout: time.Second}, logger),
		dispatcher, f.surface, f.notifier, cfg, logger,
	)
	return f
}

func actionMenu() *host.Menu {
	return &host.Menu{
		Title: "Actions",
		Items: []host.MenuItem{
			{Title: "Play"},
			{Title: "Copy link"},
		},
	}
}

func qualityMenu() *host.Menu {
	return &host.Menu{
		Title: "Quality",
		Items: []host.MenuItem{
			{Title: "1080p", Fields: map[string]any{"url": "https://cdn.example.com/1080.mp4"}},
			{Title: "720p", Fields: map[string]any{"url": "https://cdn.example.com/720.mp4"}},
		},
	}
}

func seriesPlayData() *host.PlayData {
	return &host.PlayData{
		Card: &host.Card{Title: "Show", Season: 1, Episode: 5, EpisodeTitle: "Pilot", IsSeries: true},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBeforeShow_InjectsDownloadIntoActionMenu(t *testing.T) {
	f := newFixture(t, Config{})

	m := actionMenu()
	if got := f.interceptor.BeforeShow(m, nil); got != host.ShowProceed {
		t.Fatalf("BeforeShow() = %v, want ShowProceed", got)
	}

	if len(m.Items) != 3 || m.Items[2].Title != "Download" {
		t.Fatalf("items = %+v, want Download appended", m.Items)
	}
	if !f.interceptor.DownloadIndex(m, 2) {
		t.Error("DownloadIndex should recognize the injected entry")
	}
	if f.interceptor.DownloadIndex(m, 0) {
		t.Error("DownloadIndex matched a host entry")
	}
}

func TestBeforeShow_NonActionMenuUntouched(t *testing.T) {
	f := newFixture(t, Config{})

	m := &host.Menu{Title: "Settings", Items: []host.MenuItem{{Title: "Audio"}}}
	f.interceptor.BeforeShow(m, nil)

	if len(m.Items) != 1 {
		t.Fatalf("items = %+v, want untouched", m.Items)
	}
}

func TestBeforeShow_OwnMenusBypass(t *testing.T) {
	f := newFixture(t, Config{})

	m := &host.Menu{Title: "Download Actions", Tag: "streamgrab", Items: []host.MenuItem{{Title: "1080p"}}}
	if got := f.interceptor.BeforeShow(m, nil); got != host.ShowProceed {
		t.Fatalf("BeforeShow() = %v, want ShowProceed", got)
	}
	if len(m.Items) != 1 {
		t.Error("own menu must not be modified")
	}
}

func TestOnDownload_DirectURLFastPath(t *testing.T) {
	f := newFixture(t, Config{})

	p := seriesPlayData()
	p.CurrentURL = "https://cdn.example.com/video.mp4"

	f.interceptor.OnDownload(actionMenu(), p)

	if f.interceptor.State() != StateIdle {
		t.Error("direct resolution must not arm the pending slot")
	}

	shown := f.surface.lastShown(t)
	if shown.menu.Tag != "streamgrab" {
		t.Errorf("menu tag = %q", shown.menu.Tag)
	}
	// 4 built-in targets plus copy/copy-details/share rows.
	if len(shown.menu.Items) != 7 {
		t.Fatalf("target menu rows = %d, want 7", len(shown.menu.Items))
	}

	shown.onSelect(0)
	waitFor(t, func() bool {
		f.invoker.mu.Lock()
		defer f.invoker.mu.Unlock()
		return len(f.invoker.urls) == 1
	})
	if !strings.Contains(f.invoker.urls[0], "com.junkfood.seal") {
		t.Errorf("dispatched url = %q", f.invoker.urls[0])
	}
}

func TestCorrelationFlow(t *testing.T) {
	f := newFixture(t, Config{})

	m := actionMenu()
	p := seriesPlayData()
	f.interceptor.BeforeShow(m, p)
	f.interceptor.OnDownload(m, p)

	if f.interceptor.State() != StateAwaitingMenu {
		t.Fatalf("state = %v, want StateAwaitingMenu", f.interceptor.State())
	}
	if len(f.surface.triggered) != 1 || f.surface.triggered[0] != 1 {
		t.Fatalf("triggered = %v, want copy-link entry re-triggered", f.surface.triggered)
	}

	if got := f.interceptor.BeforeShow(qualityMenu(), nil); got != host.ShowSuppress {
		t.Fatalf("BeforeShow(correlated) = %v, want ShowSuppress", got)
	}
	if f.interceptor.State() != StateIdle {
		t.Error("state must return to idle after correlation")
	}

	selector := f.surface.lastShown(t)
	if selector.menu.Tag != "streamgrab" {
		t.Errorf("selector tag = %q", selector.menu.Tag)
	}
	if len(selector.menu.Items) != 2 {
		t.Fatalf("selector rows = %d, want exactly the 2 scraped URLs", len(selector.menu.Items))
	}
	if selector.menu.Items[0].Title != "1080p" || selector.menu.Items[1].Title != "720p" {
		t.Errorf("selector rows = %+v", selector.menu.Items)
	}

	// Picking a quality opens the target menu with the captured context.
	selector.onSelect(0)
	target := f.surface.lastShown(t)
	if len(target.menu.Items) != 7 {
		t.Fatalf("target menu rows = %d, want 7", len(target.menu.Items))
	}

	target.onSelect(4) // Copy URL row
	if len(f.clipboard.texts) != 1 || f.clipboard.texts[0] != "https://cdn.example.com/1080.mp4" {
		t.Errorf("clipboard = %v", f.clipboard.texts)
	}
}

func TestCorrelation_ScrapeFailureFailsOpen(t *testing.T) {
	f := newFixture(t, Config{})

	m := actionMenu()
	f.interceptor.OnDownload(m, seriesPlayData())

	plain := &host.Menu{Title: "Quality", Items: []host.MenuItem{{Title: "Auto"}}}
	if got := f.interceptor.BeforeShow(plain, nil); got != host.ShowProceed {
		t.Fatalf("BeforeShow() = %v, want ShowProceed on scrape failure", got)
	}
	if f.interceptor.State() != StateIdle {
		t.Error("pending request must be dropped on scrape failure")
	}
	if f.surface.shownCount() != 0 {
		t.Error("no engine menu should be shown on scrape failure")
	}
}

func TestCorrelation_Timeout(t *testing.T) {
	f := newFixture(t, Config{CorrelationTimeout: 20 * time.Millisecond})

	f.interceptor.OnDownload(actionMenu(), seriesPlayData())
	if f.interceptor.State() != StateAwaitingMenu {
		t.Fatal("expected awaiting state")
	}

	waitFor(t, func() bool { return f.interceptor.State() == StateIdle })

	// A later menu is no longer treated as correlated.
	if got := f.interceptor.BeforeShow(qualityMenu(), nil); got != host.ShowProceed {
		t.Errorf("BeforeShow() after timeout = %v, want ShowProceed", got)
	}
	if f.surface.shownCount() != 0 {
		t.Error("stale correlation must not produce a selector")
	}
}

func TestOnDownload_SecondRequestOverwrites(t *testing.T) {
	f := newFixture(t, Config{})

	f.interceptor.OnDownload(actionMenu(), seriesPlayData())
	f.interceptor.OnDownload(actionMenu(), &host.PlayData{Card: &host.Card{Title: "Other"}})

	if f.interceptor.State() != StateAwaitingMenu {
		t.Fatal("expected awaiting state")
	}

	// One correlated menu consumes the (single) pending slot.
	f.interceptor.BeforeShow(qualityMenu(), nil)
	if f.interceptor.State() != StateIdle {
		t.Error("state must be idle after the single slot is consumed")
	}
}

func TestOnDownload_NoURLNoCopyLink(t *testing.T) {
	f := newFixture(t, Config{})

	m := &host.Menu{Title: "Actions", Items: []host.MenuItem{{Title: "Play"}}}
	f.interceptor.OnDownload(m, &host.PlayData{})

	if f.interceptor.State() != StateIdle {
		t.Error("nothing to re-trigger: must stay idle")
	}
	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	if len(f.notifier.messages) == 0 {
		t.Error("user must be told no URL was found")
	}
}

func TestQualityMenu_SizeDecoration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "2048")
	}))
	defer server.Close()

	f := newFixture(t, Config{})

	f.interceptor.OnDownload(actionMenu(), seriesPlayData())

	correlated := &host.Menu{
		Title: "Quality",
		Items: []host.MenuItem{
			{Title: "1080p", Fields: map[string]any{"url": server.URL + "/1080.mp4"}},
			{Title: "720p", Fields: map[string]any{"url": server.URL + "/720.mp4"}},
		},
	}
	f.interceptor.BeforeShow(correlated, nil)

	waitFor(t, func() bool { return f.surface.updateCount() == 2 })

	f.surface.mu.Lock()
	defer f.surface.mu.Unlock()
	selectorID := f.surface.shown[0].menu.ID
	for _, u := range f.surface.updates {
		if u.menuID != selectorID {
			t.Errorf("update targeted menu %q, want %q", u.menuID, selectorID)
		}
		if u.subtitle != "2.0 KB" {
			t.Errorf("subtitle = %q, want 2.0 KB", u.subtitle)
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1536 * 1024, "1.5 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tc := range cases {
		if got := formatSize(tc.size); got != tc.want {
			t.Errorf("formatSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}
