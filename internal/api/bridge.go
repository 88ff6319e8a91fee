package api

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/websocket"
)

// ErrNoClient is returned for actions that need a connected player
// client (clipboard, share, external invocation) when none is attached.
var ErrNoClient = errors.New("no player client connected")

// Bridge implements the host collaborator interfaces over the WebSocket
// hub: menus, notices and invocations are broadcast to the injected
// player client, selections come back as hub messages.
type Bridge struct {
	hub    *websocket.Hub
	logger zerolog.Logger

	mu      sync.Mutex
	selects map[string]func(int)
}

// NewBridge creates a bridge and registers its hub message handlers.
func NewBridge(hub *websocket.Hub, logger zerolog.Logger) *Bridge {
	b := &Bridge{
		hub:     hub,
		logger:  logger.With().Str("component", "bridge").Logger(),
		selects: make(map[string]func(int)),
	}

	hub.Handle("menu:selected", b.onMenuSelected)

	return b
}

type menuSelectedPayload struct {
	MenuID string `json:"menuId"`
	Index  int    `json:"index"`
}

// onMenuSelected resolves the pending selection callback for a menu the
// bridge showed earlier. Selections for dismissed menus are dropped.
func (b *Bridge) onMenuSelected(_ string, payload json.RawMessage) {
	var sel menuSelectedPayload
	if err := json.Unmarshal(payload, &sel); err != nil {
		return
	}

	b.mu.Lock()
	onSelect := b.selects[sel.MenuID]
	delete(b.selects, sel.MenuID)
	b.mu.Unlock()

	if onSelect == nil {
		b.logger.Debug().Str("menu", sel.MenuID).Msg("selection for unknown menu dropped")
		return
	}

	// Selection handlers may fetch manifests or dispatch downloads; keep
	// the hub loop free.
	go onSelect(sel.Index)
}

// Show implements host.MenuSurface.
func (b *Bridge) Show(menu host.Menu, onSelect func(index int)) {
	if menu.ID != "" && onSelect != nil {
		b.mu.Lock()
		b.selects[menu.ID] = onSelect
		b.mu.Unlock()
	}

	_ = b.hub.Broadcast("menu:show", menu)
}

// Update implements host.MenuSurface.
func (b *Bridge) Update(menuID string, index int, subtitle string) {
	_ = b.hub.Broadcast("menu:update", map[string]any{
		"menuId":   menuID,
		"index":    index,
		"subtitle": subtitle,
	})
}

// Close implements host.MenuSurface.
func (b *Bridge) Close() {
	_ = b.hub.Broadcast("menu:close", nil)
}

// Trigger implements host.MenuSurface.
func (b *Bridge) Trigger(menu host.Menu, index int) {
	_ = b.hub.Broadcast("menu:trigger", map[string]any{
		"menu":  menu,
		"index": index,
	})
}

// Notify implements host.Notifier.
func (b *Bridge) Notify(message string) {
	_ = b.hub.Broadcast("notice", map[string]string{"message": message})
}

// Copy implements host.Clipboard.
func (b *Bridge) Copy(text string) error {
	if b.hub.ClientCount() == 0 {
		return ErrNoClient
	}
	return b.hub.Broadcast("clipboard:copy", map[string]string{"text": text})
}

// Share implements host.Sharer. Without a connected client the share
// surface is absent, so callers fall through to their clipboard path.
func (b *Bridge) Share(title, text string) error {
	if b.hub.ClientCount() == 0 {
		return ErrNoClient
	}
	return b.hub.Broadcast("share", map[string]string{
		"title": title,
		"text":  text,
	})
}

// Open implements host.Invoker.
func (b *Bridge) Open(url string, extras map[string]string) error {
	if b.hub.ClientCount() == 0 {
		return ErrNoClient
	}
	return b.hub.Broadcast("invoke:open", map[string]any{
		"url":    url,
		"extras": extras,
	})
}
