package styles

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/conneroisu/breach/internal/parser"
	"github.com/stretchr/testify/assert"
)

// compilerFunc adapts a function to the Compiler interface.
type compilerFunc func(source string) (string, error)

func (f compilerFunc) Compile(source string) (string, error) { return f(source) }

func upperCompiler(source string) (string, error) {
	return strings.ToUpper(source), nil
}

func failingCompiler(string) (string, error) {
	return "", errors.New("compile blew up")
}

func TestProcessAbsentInput(t *testing.T) {
	p := NewPreprocessor(Passthrough{}, nil)
	assert.Equal(t, "", p.Process(context.Background(), ""))
}

func TestProcessCSSPassesThrough(t *testing.T) {
	p := NewPreprocessor(compilerFunc(failingCompiler), nil)
	styling := parser.TagStyleBlock(parser.StyleCSS, "body { margin: 0; }")

	// The compiler must never be consulted for plain CSS.
	assert.Equal(t, "body { margin: 0; }", p.Process(context.Background(), styling))
}

func TestProcessCompilesSCSS(t *testing.T) {
	p := NewPreprocessor(compilerFunc(upperCompiler), nil)
	styling := parser.TagStyleBlock(parser.StyleSCSS, "body { color: red; }")

	assert.Equal(t, "BODY { COLOR: RED; }", p.Process(context.Background(), styling))
}

func TestProcessCompileFailureFallsBackToRawSource(t *testing.T) {
	p := NewPreprocessor(compilerFunc(failingCompiler), nil)
	styling := parser.TagStyleBlock(parser.StyleSCSS, "$broken: ;")

	assert.Equal(t, "$broken: ;", p.Process(context.Background(), styling))
}

func TestProcessPreservesBlockOrder(t *testing.T) {
	styling := parser.TagStyleBlock(parser.StyleCSS, ".a {}") + "\n" +
		parser.TagStyleBlock(parser.StyleSCSS, ".b {}") + "\n" +
		parser.TagStyleBlock(parser.StyleCSS, ".c {}")
	p := NewPreprocessor(compilerFunc(upperCompiler), nil)

	assert.Equal(t, ".a {}\n\n.B {}\n\n.c {}", p.Process(context.Background(), styling))
}

func TestProcessMixedFailureKeepsOtherBlocks(t *testing.T) {
	styling := parser.TagStyleBlock(parser.StyleSCSS, "bad {") + "\n" +
		parser.TagStyleBlock(parser.StyleCSS, ".ok { color: blue; }")
	p := NewPreprocessor(compilerFunc(failingCompiler), nil)

	assert.Equal(t, "bad {\n\n.ok { color: blue; }", p.Process(context.Background(), styling))
}

func TestPassthroughCompiler(t *testing.T) {
	css, err := Passthrough{}.Compile("$x: 1;")
	assert.NoError(t, err)
	assert.Equal(t, "$x: 1;", css)
}
