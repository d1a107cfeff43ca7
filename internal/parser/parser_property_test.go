//go:build property
// +build property

package parser

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestParserProperties tests structural properties of section splitting
func TestParserProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: parsing is deterministic for any input
	properties.Property("deterministic", prop.ForAll(
		func(input string) bool {
			return Parse(input) == Parse(input)
		},
		gen.AnyString(),
	))

	// Property: marker keyword case never changes the result
	properties.Property("marker case irrelevant", prop.ForAll(
		func(body string, upper bool) bool {
			if strings.ContainsAny(body, "\x00") {
				return true // NUL is reserved for the internal delimiter
			}
			marker := "¦html"
			if upper {
				marker = "¦HTML"
			}
			return Parse(marker+"\n"+body) == Parse("¦html\n"+body)
		},
		gen.AlphaString(),
		gen.Bool(),
	))

	// Property: sections survive a tag/split round trip
	properties.Property("style tagging round trip", prop.ForAll(
		func(src string) bool {
			if src == "" || strings.ContainsAny(src, "\x00") {
				return true
			}
			blocks := SplitStyleBlocks(TagStyleBlock(StyleSCSS, src))
			return len(blocks) == 1 &&
				blocks[0].Kind == StyleSCSS &&
				blocks[0].Source == src
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
