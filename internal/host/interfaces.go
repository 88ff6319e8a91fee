package host

// MenuSurface is the host's selection-menu collaborator.
type MenuSurface interface {
	// Show displays an engine-built menu. onSelect receives the index of
	// the chosen item.
	Show(menu Menu, onSelect func(index int))

	// Update rewrites the subtitle of one row of a previously shown menu.
	// Best-effort: hosts ignore updates for menus that no longer exist.
	Update(menuID string, index int, subtitle string)

	// Close dismisses the currently visible menu, if any.
	Close()

	// Trigger programmatically selects an entry of a host-owned menu, as
	// if the user had picked it.
	Trigger(menu Menu, index int)
}

// Notifier surfaces short user-visible notices in the host UI.
type Notifier interface {
	Notify(message string)
}

// Clipboard copies text on the host platform.
type Clipboard interface {
	Copy(text string) error
}

// Sharer invokes the platform's native share surface. Implementations
// return an error on cancellation or absence so callers can fall back.
type Sharer interface {
	Share(title, text string) error
}

// Invoker hands a URL (direct-download or intent scheme) to the platform
// for external handling. extras is an optional side channel some download
// managers read, e.g. a JSON-encoded title.
type Invoker interface {
	Open(url string, extras map[string]string) error
}
