package resolve

import (
	"net/url"

	"github.com/streamgrab/streamgrab/internal/stream"
)

// maxUnwrapDepth bounds nested proxy chains.
const maxUnwrapDepth = 3

// UnwrapProxy peels proxy wrappers of the shape `.../proxy.php?url=<enc>`
// or generic `?url=<enc>` down to the underlying direct URL. Unwrappable
// input is returned unchanged.
func UnwrapProxy(raw string) string {
	current := raw
	for i := 0; i < maxUnwrapDepth; i++ {
		next, ok := unwrapOnce(current)
		if !ok {
			return current
		}
		current = next
	}
	return current
}

func unwrapOnce(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}

	inner := u.Query().Get("url")
	if inner == "" || !stream.IsHTTPURL(inner) {
		return raw, false
	}

	return inner, true
}
