package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

const (
	// CatalogFile maps absolute script paths to their artifact files.
	CatalogFile = "cache.json"

	// ArtifactDir holds one artifact per profiled script path.
	ArtifactDir = "prof"
)

// Store owns the on-disk trace state: the catalog file plus the
// artifact directory underneath a single base directory. It is the
// sole writer of both.
//
// Record is not safe to run concurrently against the same script path:
// the artifact write is last-writer-wins and the catalog update is a
// whole-file read-modify-write. Typical use is one interactive run at
// a time, so the store documents the assumption instead of locking.
type Store struct {
	dir         string
	interpreter string
}

// NewStore creates a store rooted at dir, running scripts with the
// given interpreter (e.g. "python3"). Nothing is created on disk until
// the first Record.
func NewStore(dir, interpreter string) *Store {
	return &Store{dir: dir, interpreter: interpreter}
}

// Dir returns the store's base directory.
func (s *Store) Dir() string {
	return s.dir
}

// ArtifactPath returns the deterministic artifact location for a
// script path. The name depends only on the absolute path, so
// re-recording the same script overwrites its prior artifact.
func (s *Store) ArtifactPath(script string) (string, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", script, err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(s.dir, ArtifactDir, hex.EncodeToString(sum[:])+".prof"), nil
}

// Record runs the script under the profiling harness, writes its
// artifact, and points the catalog entry for the script at it. The
// script's own exit status is deliberately ignored: a script that
// errors midway still produced call data worth keeping. Only a failure
// to launch the interpreter itself is an error.
func (s *Store) Record(script string) (string, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", script, err)
	}

	artifact, err := s.ArtifactPath(abs)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(artifact), 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	cmd := exec.Command(s.interpreter, "-c", harnessSource, abs, artifact)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to run %s: %w", s.interpreter, err)
		}
	}

	catalog, err := s.readCatalog()
	if err != nil {
		return "", err
	}
	catalog[abs] = artifact
	if err := s.writeCatalog(catalog); err != nil {
		return "", err
	}

	return artifact, nil
}

// Lookup returns the catalog entry for a script path, if any.
func (s *Store) Lookup(script string) (string, bool, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve %q: %w", script, err)
	}

	catalog, err := s.readCatalog()
	if err != nil {
		return "", false, err
	}
	artifact, ok := catalog[abs]
	return artifact, ok, nil
}

// Entries returns every cataloged script path in sorted order.
func (s *Store) Entries() ([]string, error) {
	catalog, err := s.readCatalog()
	if err != nil {
		return nil, err
	}

	scripts := make([]string, 0, len(catalog))
	for script := range catalog {
		scripts = append(scripts, script)
	}
	sort.Strings(scripts)
	return scripts, nil
}

// ArtifactFiles returns every artifact present in the artifact
// directory, cataloged or not, in sorted order.
func (s *Store) ArtifactFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, ArtifactDir, "*.prof"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Clear deletes every artifact file and empties the catalog. Artifacts
// already missing from disk are not an error, so clearing an empty or
// half-cleared store succeeds.
func (s *Store) Clear() error {
	files, err := s.ArtifactFiles()
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove artifact %s: %w", file, err)
		}
	}
	return s.writeCatalog(map[string]string{})
}

func (s *Store) catalogPath() string {
	return filepath.Join(s.dir, CatalogFile)
}

// readCatalog treats a missing catalog file as an empty catalog, the
// state of a store that has never recorded anything.
func (s *Store) readCatalog() (map[string]string, error) {
	data, err := os.ReadFile(s.catalogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	var catalog map[string]string
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("corrupt catalog %s: %w", s.catalogPath(), err)
	}
	if catalog == nil {
		catalog = map[string]string{}
	}
	return catalog, nil
}

func (s *Store) writeCatalog(catalog map[string]string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	// MarshalIndent writes map keys in sorted order, which keeps the
	// catalog file diff-friendly across rewrites.
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.catalogPath(), data, 0644)
}
