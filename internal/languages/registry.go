package languages

import "github.com/ghostbust-dev/ghostbust/internal/parser"

// NewDefaultRegistry creates a registry with all supported language
// parsers. Only Python is registered: the dynamic side of the analysis
// comes from cProfile, and declaring functions the profiler could never
// observe would report them as orphans forever.
func NewDefaultRegistry() *parser.Registry {
	r := parser.NewRegistry()

	r.Register(NewPythonParser())

	return r
}
