package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghostbust-dev/ghostbust/internal/funcref"
)

// Decl is one function definition found in a source file. Line is
// 1-based and points at the definition itself, not any decorator.
type Decl struct {
	Name string
	Line int
}

// LanguageParser defines the interface each language must implement
type LanguageParser interface {
	// Language returns the language name (e.g., "python")
	Language() string

	// Extensions returns file extensions this parser handles
	Extensions() []string

	// Declarations extracts every function definition from source code,
	// at any nesting depth. A syntactically broken file is an error.
	Declarations(filename string, content []byte) ([]Decl, error)
}

// Registry holds all registered language parsers
type Registry struct {
	parsers   map[string]LanguageParser // language name -> parser
	extToLang map[string]string         // extension -> language name
}

// NewRegistry creates a new parser registry
func NewRegistry() *Registry {
	return &Registry{
		parsers:   make(map[string]LanguageParser),
		extToLang: make(map[string]string),
	}
}

// Register adds a language parser to the registry
func (r *Registry) Register(p LanguageParser) {
	lang := p.Language()
	r.parsers[lang] = p
	for _, ext := range p.Extensions() {
		r.extToLang[ext] = lang
	}
}

// GetParserForFile returns the appropriate parser for a file
func (r *Registry) GetParserForFile(filename string) (LanguageParser, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	lang, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	parser, ok := r.parsers[lang]
	return parser, ok
}

// DeclaredInFile parses a single source file and returns a ref for
// every function it declares, keyed on the file's absolute path.
func (r *Registry) DeclaredInFile(path string) ([]funcref.Ref, error) {
	parser, ok := r.GetParserForFile(path)
	if !ok {
		return nil, nil // unsupported file type, skip silently
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decls, err := parser.Declarations(path, content)
	if err != nil {
		return nil, err
	}

	refs := make([]funcref.Ref, 0, len(decls))
	for _, decl := range decls {
		refs = append(refs, funcref.Ref{
			Path: absPath,
			Line: decl.Line,
			Name: decl.Name,
		})
	}
	return refs, nil
}

// DeclaredFromPatterns resolves each glob pattern against the working
// directory and collects the declared-function set across every match.
// Files matched by more than one pattern collapse to one parse; a
// pattern matching nothing contributes nothing. Any file that fails to
// parse aborts the whole extraction: skipping it silently would
// under-report declarations and fabricate orphans downstream.
func (r *Registry) DeclaredFromPatterns(patterns []string) (funcref.Set, error) {
	seen := make(map[string]bool)
	declared := make(funcref.Set)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				continue
			}

			refs, err := r.DeclaredInFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			for _, ref := range refs {
				declared.Add(ref)
			}
		}
	}

	return declared, nil
}
