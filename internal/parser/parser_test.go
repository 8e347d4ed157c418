package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ghostbust-dev/ghostbust/internal/funcref"
)

type stubParser struct {
	decls map[string][]Decl
	fail  map[string]error
}

func (s stubParser) Language() string {
	return "stub"
}

func (s stubParser) Extensions() []string {
	return []string{".stub"}
}

func (s stubParser) Declarations(filename string, content []byte) ([]Decl, error) {
	if err := s.fail[filepath.Base(filename)]; err != nil {
		return nil, err
	}
	return s.decls[filepath.Base(filename)], nil
}

func TestRegistryGetParserForFile(t *testing.T) {
	r := NewRegistry()
	r.Register(stubParser{})

	p, ok := r.GetParserForFile("demo.STUB")
	if !ok {
		t.Fatalf("expected parser for .STUB extension")
	}
	if p.Language() != "stub" {
		t.Fatalf("expected language stub, got %s", p.Language())
	}
}

func TestDeclaredInFileKeysOnAbsolutePath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.stub")
	mustWriteFile(t, path, "x")

	r := NewRegistry()
	r.Register(stubParser{decls: map[string][]Decl{
		"a.stub": {{Name: "foo", Line: 3}},
	}})

	refs, err := r.DeclaredInFile(path)
	if err != nil {
		t.Fatalf("DeclaredInFile: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if !filepath.IsAbs(refs[0].Path) {
		t.Fatalf("expected absolute path, got %q", refs[0].Path)
	}
	if refs[0].Line != 3 || refs[0].Name != "foo" {
		t.Fatalf("unexpected ref %v", refs[0])
	}
}

func TestDeclaredFromPatternsCollapsesOverlappingMatches(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.stub"), "x")
	mustWriteFile(t, filepath.Join(root, "b.stub"), "y")

	r := NewRegistry()
	r.Register(stubParser{decls: map[string][]Decl{
		"a.stub": {{Name: "foo", Line: 1}},
		"b.stub": {{Name: "bar", Line: 1}},
	}})

	declared, err := r.DeclaredFromPatterns([]string{
		filepath.Join(root, "*.stub"),
		filepath.Join(root, "a.stub"),
	})
	if err != nil {
		t.Fatalf("DeclaredFromPatterns: %v", err)
	}
	if len(declared) != 2 {
		t.Fatalf("expected 2 declarations, got %d: %v", len(declared), declared.Sorted())
	}
}

func TestDeclaredFromPatternsZeroMatchesIsNotAnError(t *testing.T) {
	root := t.TempDir()
	r := NewRegistry()
	r.Register(stubParser{})

	declared, err := r.DeclaredFromPatterns([]string{filepath.Join(root, "*.stub")})
	if err != nil {
		t.Fatalf("expected no error for empty match, got %v", err)
	}
	if len(declared) != 0 {
		t.Fatalf("expected empty set, got %v", declared.Sorted())
	}
}

func TestDeclaredFromPatternsParseFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "good.stub"), "x")
	mustWriteFile(t, filepath.Join(root, "bad.stub"), "y")

	r := NewRegistry()
	r.Register(stubParser{
		decls: map[string][]Decl{"good.stub": {{Name: "foo", Line: 1}}},
		fail:  map[string]error{"bad.stub": errors.New("syntax error")},
	})

	if _, err := r.DeclaredFromPatterns([]string{filepath.Join(root, "*.stub")}); err == nil {
		t.Fatalf("expected extraction to fail when one file fails to parse")
	}
}

func TestDeclaredFromPatternsIsIdempotent(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.stub"), "x")

	r := NewRegistry()
	r.Register(stubParser{decls: map[string][]Decl{
		"a.stub": {{Name: "foo", Line: 1}, {Name: "bar", Line: 5}},
	}})

	patterns := []string{filepath.Join(root, "*.stub")}
	first, err := r.DeclaredFromPatterns(patterns)
	if err != nil {
		t.Fatalf("first extraction: %v", err)
	}
	second, err := r.DeclaredFromPatterns(patterns)
	if err != nil {
		t.Fatalf("second extraction: %v", err)
	}
	if !reflect.DeepEqual(first.Sorted(), second.Sorted()) {
		t.Fatalf("expected identical sets, got %v vs %v", first.Sorted(), second.Sorted())
	}
}

func TestDeclaredFromPatternsSkipsUnsupportedFiles(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.stub"), "x")
	mustWriteFile(t, filepath.Join(root, "notes.txt"), "not source")

	r := NewRegistry()
	r.Register(stubParser{decls: map[string][]Decl{
		"a.stub": {{Name: "foo", Line: 1}},
	}})

	declared, err := r.DeclaredFromPatterns([]string{filepath.Join(root, "*")})
	if err != nil {
		t.Fatalf("DeclaredFromPatterns: %v", err)
	}

	want := funcref.NewSet(funcref.Ref{Path: filepath.Join(root, "a.stub"), Line: 1, Name: "foo"})
	if !reflect.DeepEqual(declared.Sorted(), want.Sorted()) {
		t.Fatalf("expected %v, got %v", want.Sorted(), declared.Sorted())
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
