package dispatch

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

const (
	intentAction = "android.intent.action.SEND"
	storeURLBase = "https://play.google.com/store/apps/details?id="
)

// WithFilenameFragment appends the `#filename=<name.ext>` fragment
// convention certain download managers honor as a filename override.
func WithFilenameFragment(streamURL, stem, ext string) string {
	return streamURL + "#filename=" + url.QueryEscape(stem+ext)
}

// BuildIntentURL synthesizes an Android intent scheme URL that shares
// text with a specific package, with a browser store fallback if the app
// is absent. extras become additional `S.<key>` string parameters.
func BuildIntentURL(text, pkg string, extras map[string]string) string {
	var b strings.Builder
	b.WriteString("intent://#Intent;")
	b.WriteString("action=" + intentAction + ";")
	b.WriteString("type=text/plain;")
	b.WriteString("S.android.intent.extra.TEXT=" + url.QueryEscape(text) + ";")

	// Deterministic extra ordering.
	keys := make([]string, 0, len(extras))
	for k := range extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("S." + k + "=" + url.QueryEscape(extras[k]) + ";")
	}

	b.WriteString("package=" + pkg + ";")
	b.WriteString("S.browser_fallback_url=" + url.QueryEscape(storeURLBase+pkg) + ";")
	b.WriteString("end")
	return b.String()
}

// titleSideChannel JSON-encodes the `{title}` payload some host apps read
// alongside a direct invocation.
func titleSideChannel(title string) string {
	data, _ := json.Marshal(struct {
		Title string `json:"title"`
	}{Title: title})
	return string(data)
}

// headerExtras flattens transport headers into intent-extra keys.
func headerExtras(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	extras := make(map[string]string, len(headers))
	for k, v := range headers {
		extras["header_"+strings.ToLower(strings.ReplaceAll(k, "-", "_"))] = v
	}
	return extras
}
