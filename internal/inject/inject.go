// Package inject rewrites a document's markup to reference its
// generated stylesheet and script artifacts and to bootstrap live
// reload. Injection is positional text insertion: the author's bytes
// are preserved verbatim and only the reference tags are added.
package inject

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed livereload.html
var liveReloadRaw string

// liveReloadScript opens a persistent connection to /ws and reloads
// the page on signal. It is bundled static content, never interpolated.
var liveReloadScript = strings.TrimSpace(liveReloadRaw)

// Links injects stylesheet and script references into markup, plus the
// live-reload bootstrap. Both references carry ?v=<fingerprint> for
// cache busting. Runs exactly once per snapshot, at build time.
func Links(markup string, hasStyling, hasScript bool, fingerprint uint64) string {
	out := markup

	if hasStyling {
		var title string
		out, title = extractTitle(out)
		link := fmt.Sprintf(`<link rel="stylesheet" href="/style.css?v=%d">`, fingerprint)
		out = placeStylesheet(out, link, title)
	}

	if hasScript {
		out = placeScript(out, fmt.Sprintf(`<script src="/script.js?v=%d"></script>`, fingerprint))
	}

	return placeScript(out, liveReloadScript)
}

// indexFold returns the byte index of the first case-insensitive
// occurrence of substr in s, or -1. Matching is ASCII-folded, which is
// all HTML tag names need.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// extractTitle removes an existing <title>...</title> element and
// returns the remaining markup plus the trimmed title text. The title
// text is re-inserted next to the stylesheet reference so it survives
// head synthesis.
func extractTitle(markup string) (string, string) {
	start := indexFold(markup, "<title>")
	if start < 0 {
		return markup, ""
	}
	end := indexFold(markup, "</title>")
	if end < 0 || end < start {
		return markup, ""
	}
	title := strings.TrimSpace(markup[start+len("<title>") : end])
	return markup[:start] + markup[end+len("</title>"):], title
}

// placeStylesheet inserts the stylesheet link following the placement
// priority: before </head>, after <head>, after <html> (synthesizing a
// head), or a synthesized head prepended to markup with no structure
// tags at all.
func placeStylesheet(markup, link, title string) string {
	insertion := link
	if title != "" {
		insertion += "\n    <title>" + title + "</title>"
	}

	if i := indexFold(markup, "</head>"); i >= 0 {
		return markup[:i] + "\n    " + insertion + "\n" + markup[i:]
	}
	if i := indexFold(markup, "<head>"); i >= 0 {
		at := i + len("<head>")
		return markup[:at] + "\n    " + insertion + markup[at:]
	}
	if i := indexFold(markup, "<html>"); i >= 0 {
		at := i + len("<html>")
		head := "<head>\n    " + insertion + "\n</head>"
		return markup[:at] + "\n" + head + markup[at:]
	}
	head := "<head>\n    <meta charset=\"utf-8\">\n    " + insertion + "\n</head>"
	return head + "\n" + markup
}

// placeScript inserts a script tag immediately before </body>, or
// appends it when the markup has no body close tag.
func placeScript(markup, tag string) string {
	if i := indexFold(markup, "</body>"); i >= 0 {
		return markup[:i] + "\n    " + tag + "\n" + markup[i:]
	}
	return markup + "\n" + tag
}
