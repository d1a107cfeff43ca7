// Package styles turns the tagged styling stream produced by the
// parser into the final CSS artifact. SCSS sub-blocks are compiled;
// CSS sub-blocks pass through; results rejoin in document order.
package styles

import (
	"context"
	"strings"

	"github.com/conneroisu/breach/internal/logging"
	"github.com/conneroisu/breach/internal/parser"
)

// Preprocessor compiles and concatenates styling sub-blocks.
type Preprocessor struct {
	compiler Compiler
	logger   logging.Logger
}

// NewPreprocessor creates a preprocessor backed by the given compiler.
func NewPreprocessor(compiler Compiler, logger logging.Logger) *Preprocessor {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Preprocessor{compiler: compiler, logger: logger}
}

// Process produces final CSS from a tagged styling string. A compile
// failure on one block logs and substitutes that block's raw source
// unchanged; authored content is never dropped on a tool failure.
// Absent input yields absent output.
func (p *Preprocessor) Process(ctx context.Context, styling string) string {
	if styling == "" {
		return ""
	}

	blocks := parser.SplitStyleBlocks(styling)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		switch block.Kind {
		case parser.StyleSCSS:
			css, err := p.compiler.Compile(block.Source)
			if err != nil {
				p.logger.Warn(ctx, err, "scss compile failed, serving raw source")
				out = append(out, block.Source)
				continue
			}
			out = append(out, strings.TrimSpace(css))
		default:
			out = append(out, block.Source)
		}
	}

	return strings.Join(out, "\n\n")
}
