package resolve

import (
	"strconv"

	"github.com/streamgrab/streamgrab/internal/stream"
)

// lookup returns the first value present under any of the given keys.
func lookup(fields map[string]any, keys []string) (any, bool) {
	if fields == nil {
		return nil, false
	}
	for _, key := range keys {
		if v, ok := fields[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// asString unwraps a payload value into a string, resolving zero-argument
// accessor functions one level deep.
func asString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, value != ""
	case func() string:
		s := value()
		return s, s != ""
	case func() any:
		if s, ok := value().(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// asHTTPString unwraps a value and keeps it only when it is an absolute
// http(s) URL.
func asHTTPString(v any) (string, bool) {
	s, ok := asString(v)
	if !ok || !stream.IsHTTPURL(s) {
		return "", false
	}
	return s, true
}

func asMap(v any) (map[string]any, bool) {
	switch value := v.(type) {
	case map[string]any:
		return value, true
	case map[string]string:
		m := make(map[string]any, len(value))
		for k, s := range value {
			m[k] = s
		}
		return m, true
	}
	return nil, false
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// asInt coerces numeric payload values; JSON decoding produces float64.
func asInt(v any) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	case string:
		if n, err := strconv.Atoi(value); err == nil {
			return n, true
		}
	}
	return 0, false
}

func lookupString(fields map[string]any, keys []string) (string, bool) {
	v, ok := lookup(fields, keys)
	if !ok {
		return "", false
	}
	return asString(v)
}

func lookupInt(fields map[string]any, keys []string) (int, bool) {
	v, ok := lookup(fields, keys)
	if !ok {
		return 0, false
	}
	return asInt(v)
}
