package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghostbust-dev/ghostbust/internal/funcref"
)

// Entry is one profiled function row as recorded by the harness.
// File and Line point at the function's definition; built-in functions
// carry cProfile's placeholder file "~" and line 0.
type Entry struct {
	File      string  `json:"file"`
	Line      int     `json:"line"`
	Name      string  `json:"name"`
	Calls     int64   `json:"ncalls"`
	PrimCalls int64   `json:"primcalls"`
	TotalTime float64 `json:"tottime"`
	CumTime   float64 `json:"cumtime"`
}

// ReadArtifact decodes every entry from an artifact file. This is the
// only place that knows the artifact's on-disk encoding.
func ReadArtifact(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries := make([]Entry, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("corrupt artifact %s: %w", path, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return entries, nil
}

// CalledFuncs returns the set of functions observed as call targets in
// one artifact. Recorded paths are normalized to absolute form so they
// join against the declaration extractor's refs.
func CalledFuncs(artifact string) (funcref.Set, error) {
	entries, err := ReadArtifact(artifact)
	if err != nil {
		return nil, err
	}

	called := make(funcref.Set, len(entries))
	for _, entry := range entries {
		abs, err := filepath.Abs(entry.File)
		if err != nil {
			return nil, err
		}
		called.Add(funcref.Ref{Path: abs, Line: entry.Line, Name: entry.Name})
	}
	return called, nil
}

// CalledAll returns the union of called-function sets over every
// artifact file in the store's artifact directory. Artifacts that have
// lost their catalog entry still count: they hold real observations.
func (s *Store) CalledAll() (funcref.Set, error) {
	files, err := s.ArtifactFiles()
	if err != nil {
		return nil, err
	}

	called := make(funcref.Set)
	for _, file := range files {
		set, err := CalledFuncs(file)
		if err != nil {
			return nil, err
		}
		called.Union(set)
	}
	return called, nil
}
