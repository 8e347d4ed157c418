package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ghostbust-dev/ghostbust/internal/funcref"
)

const (
	tableIndent    = 2
	tableNameWidth = 28
)

// printRefTable writes one row per ref: the truncated function name
// and its source location. Truncation is display-only; the refs
// themselves are never shortened.
func printRefTable(w io.Writer, refs []funcref.Ref, workDir string) {
	indent := strings.Repeat(" ", tableIndent)
	for _, ref := range refs {
		location := fmt.Sprintf("%s:%d", displayPath(ref.Path, workDir), ref.Line)
		fmt.Fprintf(w, "%s%-*s %s\n", indent, tableNameWidth, truncateName(ref.Name, tableNameWidth), location)
	}
}

func truncateName(name string, width int) string {
	if len(name) > width {
		return name[:width-3] + "..."
	}
	return name
}

// displayPath renders a path relative to the working directory when it
// lives underneath it, absolute otherwise.
func displayPath(path, workDir string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
