package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ghostbust-dev/ghostbust/internal/funcref"
)

func writeArtifact(t *testing.T, path string, entries []Entry) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			t.Fatalf("marshal entry: %v", err)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func TestReadArtifactDecodesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.prof")
	want := []Entry{
		{File: "/a.py", Line: 3, Name: "foo", Calls: 2, PrimCalls: 2, TotalTime: 0.5, CumTime: 1.0},
		{File: "~", Line: 0, Name: "<built-in method print>", Calls: 7, PrimCalls: 7},
	}
	writeArtifact(t, path, want)

	got, err := ReadArtifact(path)
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestReadArtifactRejectsCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.prof")
	if err := os.WriteFile(path, []byte("{truncated\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := ReadArtifact(path); err == nil {
		t.Fatalf("expected error for corrupt artifact")
	}
}

func TestCalledFuncsNormalizesPathsToAbsolute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.prof")
	writeArtifact(t, path, []Entry{
		{File: "rel.py", Line: 4, Name: "helper", Calls: 1, PrimCalls: 1},
	})

	called, err := CalledFuncs(path)
	if err != nil {
		t.Fatalf("CalledFuncs: %v", err)
	}

	abs, err := filepath.Abs("rel.py")
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if !called.Contains(funcref.Ref{Path: abs, Line: 4, Name: "helper"}) {
		t.Fatalf("expected %s in %v", abs, called.Sorted())
	}
}

func TestCalledAllUnionsEveryArtifact(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "python3")

	writeArtifact(t, filepath.Join(dir, ArtifactDir, "one.prof"), []Entry{
		{File: "/a.py", Line: 3, Name: "foo", Calls: 1, PrimCalls: 1},
	})
	writeArtifact(t, filepath.Join(dir, ArtifactDir, "two.prof"), []Entry{
		{File: "/b.py", Line: 8, Name: "bar", Calls: 1, PrimCalls: 1},
	})

	union, err := store.CalledAll()
	if err != nil {
		t.Fatalf("CalledAll: %v", err)
	}

	one, err := CalledFuncs(filepath.Join(dir, ArtifactDir, "one.prof"))
	if err != nil {
		t.Fatalf("CalledFuncs one: %v", err)
	}
	two, err := CalledFuncs(filepath.Join(dir, ArtifactDir, "two.prof"))
	if err != nil {
		t.Fatalf("CalledFuncs two: %v", err)
	}
	one.Union(two)

	if !reflect.DeepEqual(union.Sorted(), one.Sorted()) {
		t.Fatalf("expected union %v, got %v", one.Sorted(), union.Sorted())
	}
	if len(union) != 2 {
		t.Fatalf("expected 2 distinct refs, got %d", len(union))
	}
}

// Artifacts without a catalog entry still hold real observations, so
// the all-traces union includes them.
func TestCalledAllIncludesUncatalogedArtifacts(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "python3")

	writeArtifact(t, filepath.Join(dir, ArtifactDir, "stray.prof"), []Entry{
		{File: "/a.py", Line: 3, Name: "foo", Calls: 1, PrimCalls: 1},
	})

	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty catalog, got %v", entries)
	}

	union, err := store.CalledAll()
	if err != nil {
		t.Fatalf("CalledAll: %v", err)
	}
	if !union.Contains(funcref.Ref{Path: "/a.py", Line: 3, Name: "foo"}) {
		t.Fatalf("expected stray artifact observation in %v", union.Sorted())
	}
}

func TestCalledAllOnEmptyStoreIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir(), "python3")

	union, err := store.CalledAll()
	if err != nil {
		t.Fatalf("CalledAll: %v", err)
	}
	if len(union) != 0 {
		t.Fatalf("expected empty set, got %v", union.Sorted())
	}
}
