// Package parser splits a .breach source document into its typed
// sections. A section begins at a marker line: a line whose first
// non-whitespace character is '¦' or '|', immediately followed by a
// case-insensitive section keyword (html, css, scss, js, ts,
// typescript). The marker line itself is consumed; everything up to
// the next marker belongs to that section. Text before the first
// marker is discarded, and repeated sections of the same type append
// in document order.
package parser

import (
	"strings"
	"unicode/utf8"
)

// ParsedContent holds the sections extracted from one document. An
// empty string means the section never appeared or was all-whitespace.
type ParsedContent struct {
	// Markup is the combined html section content.
	Markup string
	// Styling is the combined styling content with each sub-block
	// wrapped in a machine delimiter naming its kind (css or scss),
	// so the preprocessor can dispatch per block after concatenation.
	Styling string
	// Script is the combined js/ts section content.
	Script string
}

// HasMarkup reports whether a markup section was present.
func (p ParsedContent) HasMarkup() bool { return p.Markup != "" }

// HasStyling reports whether any styling section was present.
func (p ParsedContent) HasStyling() bool { return p.Styling != "" }

// HasScript reports whether a script section was present.
func (p ParsedContent) HasScript() bool { return p.Script != "" }

// StyleKind identifies a styling sub-block's source language.
type StyleKind string

const (
	StyleCSS  StyleKind = "css"
	StyleSCSS StyleKind = "scss"
)

// StyleBlock is one tagged styling sub-block in document order.
type StyleBlock struct {
	Kind   StyleKind
	Source string
}

// styleDelim wraps the kind tag that precedes each styling sub-block
// inside ParsedContent.Styling. NUL cannot appear in the line-based
// source text, so the delimiter cannot collide with authored content.
const styleDelim = "\x00"

// TagStyleBlock prepends the machine delimiter for kind to src.
func TagStyleBlock(kind StyleKind, src string) string {
	return styleDelim + string(kind) + styleDelim + src
}

// SplitStyleBlocks decomposes a tagged styling string back into its
// sub-blocks. Untagged input (which Parse never produces) yields nil.
func SplitStyleBlocks(styling string) []StyleBlock {
	if styling == "" {
		return nil
	}
	pieces := strings.Split(styling, styleDelim)
	var blocks []StyleBlock
	for i := 1; i+1 < len(pieces); i += 2 {
		blocks = append(blocks, StyleBlock{
			Kind:   StyleKind(pieces[i]),
			Source: strings.TrimSuffix(pieces[i+1], "\n"),
		})
	}
	return blocks
}

type section int

const (
	sectionNone section = iota
	sectionMarkup
	sectionStyling
	sectionScript
)

// markerSection reports which section a line switches to, if the line
// is a recognized marker. Marker-like lines with an unknown keyword
// are not markers; they stay ordinary content of the current section.
func markerSection(line string) (section, StyleKind, bool) {
	s := strings.TrimLeft(line, " \t")
	r, size := utf8.DecodeRuneInString(s)
	if r != '¦' && r != '|' {
		return sectionNone, "", false
	}
	rest := s[size:]
	end := 0
	for end < len(rest) && isAlphanumeric(rest[end]) {
		end++
	}
	switch keyword := rest[:end]; {
	case strings.EqualFold(keyword, "html"):
		return sectionMarkup, "", true
	case strings.EqualFold(keyword, "css"):
		return sectionStyling, StyleCSS, true
	case strings.EqualFold(keyword, "scss"):
		return sectionStyling, StyleSCSS, true
	case strings.EqualFold(keyword, "js"),
		strings.EqualFold(keyword, "ts"),
		strings.EqualFold(keyword, "typescript"):
		return sectionScript, "", true
	}
	return sectionNone, "", false
}

func isAlphanumeric(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// normalizeNewlines rewrites CRLF and bare CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

type styleAccum struct {
	kind  StyleKind
	lines []string
}

// Parse splits raw document text into typed sections. The input has
// an optional leading BOM stripped and newlines normalized first.
func Parse(text string) ParsedContent {
	normalized := normalizeNewlines(strings.TrimPrefix(text, "\ufeff"))

	var markupLines, scriptLines []string
	var styleBlocks []styleAccum
	cur := sectionNone

	for _, line := range strings.Split(normalized, "\n") {
		if sec, kind, ok := markerSection(line); ok {
			cur = sec
			if sec == sectionStyling {
				styleBlocks = append(styleBlocks, styleAccum{kind: kind})
			}
			continue
		}
		switch cur {
		case sectionMarkup:
			markupLines = append(markupLines, line)
		case sectionStyling:
			last := &styleBlocks[len(styleBlocks)-1]
			last.lines = append(last.lines, line)
		case sectionScript:
			scriptLines = append(scriptLines, line)
		case sectionNone:
			// Text before the first marker is discarded.
		}
	}

	var tagged []string
	for _, b := range styleBlocks {
		src := strings.TrimSpace(strings.Join(b.lines, "\n"))
		if src == "" {
			continue
		}
		tagged = append(tagged, TagStyleBlock(b.kind, src))
	}

	return ParsedContent{
		Markup:  strings.TrimSpace(strings.Join(markupLines, "\n")),
		Styling: strings.Join(tagged, "\n"),
		Script:  strings.TrimSpace(strings.Join(scriptLines, "\n")),
	}
}
