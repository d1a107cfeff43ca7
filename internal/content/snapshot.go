// Package content builds and holds the published document state. A
// Snapshot is one immutable generation of the pipeline's output; the
// Store is the single shared slot the server reads and the watcher
// publishes into.
package content

import (
	"context"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/conneroisu/breach/internal/inject"
	"github.com/conneroisu/breach/internal/parser"
	"github.com/conneroisu/breach/internal/styles"
)

// noScriptSentinel feeds the fingerprint when the script section is
// absent, so removing a script changes the fingerprint even when
// markup and styling stay identical.
const noScriptSentinel = "\x00no-script\x00"

// Snapshot is an immutable bundle of one pipeline run: the parsed
// sections, the final CSS, the markup with references injected, and
// the fingerprint of the final artifacts. InjectedMarkup is always
// derived from this snapshot's own Parsed, never a prior generation's.
type Snapshot struct {
	Parsed         parser.ParsedContent
	CSS            string
	InjectedMarkup string
	Fingerprint    uint64
}

// fingerprint hashes the final markup, styling, and script bytes in
// that fixed order with a 64-bit non-cryptographic hash.
func fingerprint(markup, css, script string) uint64 {
	digest := xxhash.New()
	digest.WriteString(markup)
	digest.WriteString(css)
	if script != "" {
		digest.WriteString(script)
	} else {
		digest.WriteString(noScriptSentinel)
	}
	return digest.Sum64()
}

// Build runs preprocess, fingerprint, and injection over parsed
// sections and returns the finished snapshot. Identical input always
// yields an identical snapshot.
func Build(ctx context.Context, parsed parser.ParsedContent, pre *styles.Preprocessor) *Snapshot {
	css := pre.Process(ctx, parsed.Styling)

	snap := &Snapshot{
		Parsed:      parsed,
		CSS:         css,
		Fingerprint: fingerprint(parsed.Markup, css, parsed.Script),
	}
	if parsed.HasMarkup() {
		snap.InjectedMarkup = inject.Links(parsed.Markup, css != "", parsed.HasScript(), snap.Fingerprint)
	}
	return snap
}

// BuildFile reads and parses the source file at path, then builds a
// snapshot from it.
func BuildFile(ctx context.Context, path string, pre *styles.Preprocessor) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Build(ctx, parser.Parse(string(raw)), pre), nil
}
