package styles

import (
	"fmt"

	"github.com/bep/godartsass/v2"
)

// Compiler turns SCSS source into CSS.
type Compiler interface {
	Compile(source string) (string, error)
}

// DartCompiler compiles SCSS through the Dart Sass embedded protocol.
type DartCompiler struct {
	transpiler *godartsass.Transpiler
}

// NewDartCompiler starts a Dart Sass transpiler process. It fails when
// no dart-sass binary can be found on the host.
func NewDartCompiler() (*DartCompiler, error) {
	transpiler, err := godartsass.Start(godartsass.Options{})
	if err != nil {
		return nil, fmt.Errorf("starting dart-sass: %w", err)
	}
	return &DartCompiler{transpiler: transpiler}, nil
}

// Compile transpiles one SCSS source block to expanded CSS.
func (c *DartCompiler) Compile(source string) (string, error) {
	result, err := c.transpiler.Execute(godartsass.Args{
		Source:       source,
		SourceSyntax: godartsass.SourceSyntaxSCSS,
		OutputStyle:  godartsass.OutputStyleExpanded,
	})
	if err != nil {
		return "", fmt.Errorf("compiling scss: %w", err)
	}
	return result.CSS, nil
}

// Close shuts down the transpiler process.
func (c *DartCompiler) Close() error {
	return c.transpiler.Close()
}

// Passthrough returns SCSS source unchanged. It stands in for the real
// compiler when dart-sass is unavailable, so authored styling is still
// served rather than dropped.
type Passthrough struct{}

func (Passthrough) Compile(source string) (string, error) {
	return source, nil
}
