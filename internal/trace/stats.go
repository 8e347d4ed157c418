package trace

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// SortKey selects the ranking for the stats listing.
type SortKey string

const (
	SortCalls     SortKey = "ncalls"
	SortTotalTime SortKey = "tottime"
	SortPerCall   SortKey = "percall"
	SortCumTime   SortKey = "cumtime"
	SortFilename  SortKey = "filename"
)

// DefaultSortKey ranks by cumulative time, the most useful view of
// where a run spent its time.
const DefaultSortKey = SortCumTime

// DefaultStatsLines caps the stats listing.
const DefaultStatsLines = 25

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(value string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortCalls:
		return SortCalls, nil
	case SortTotalTime:
		return SortTotalTime, nil
	case SortPerCall:
		return SortPerCall, nil
	case SortCumTime:
		return SortCumTime, nil
	case SortFilename:
		return SortFilename, nil
	}
	return "", fmt.Errorf("unknown sort key %q (one of ncalls, tottime, percall, cumtime, filename)", value)
}

// RenderStats formats entries as a profiler summary table, sorted by
// key and capped at numLines rows. Time keys rank descending, the
// filename key ascending; ties fall back to source location so the
// same artifact always renders the same bytes.
func RenderStats(entries []Entry, key SortKey, numLines int) string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return statsLess(sorted[i], sorted[j], key)
	})
	if numLines >= 0 && len(sorted) > numLines {
		sorted = sorted[:numLines]
	}

	var totalCalls, primCalls int64
	var totalTime float64
	for _, entry := range entries {
		totalCalls += entry.Calls
		primCalls += entry.PrimCalls
		totalTime += entry.TotalTime
	}

	var b strings.Builder
	if totalCalls == primCalls {
		fmt.Fprintf(&b, "%d function calls in %.3f seconds\n\n", totalCalls, totalTime)
	} else {
		fmt.Fprintf(&b, "%d function calls (%d primitive calls) in %.3f seconds\n\n", totalCalls, primCalls, totalTime)
	}
	fmt.Fprintf(&b, "%10s %9s %9s %9s %9s %s\n", "ncalls", "tottime", "percall", "cumtime", "percall", "filename:lineno(function)")

	for _, entry := range sorted {
		calls := fmt.Sprintf("%d", entry.Calls)
		if entry.PrimCalls != entry.Calls {
			calls = fmt.Sprintf("%d/%d", entry.Calls, entry.PrimCalls)
		}
		fmt.Fprintf(&b, "%10s %9.3f %9.3f %9.3f %9.3f %s\n",
			calls,
			entry.TotalTime,
			safeDiv(entry.TotalTime, entry.Calls),
			entry.CumTime,
			safeDiv(entry.CumTime, entry.PrimCalls),
			statsLocation(entry),
		)
	}
	return b.String()
}

func statsLess(a, b Entry, key SortKey) bool {
	switch key {
	case SortCalls:
		if a.Calls != b.Calls {
			return a.Calls > b.Calls
		}
	case SortTotalTime:
		if a.TotalTime != b.TotalTime {
			return a.TotalTime > b.TotalTime
		}
	case SortPerCall:
		pa, pb := safeDiv(a.TotalTime, a.Calls), safeDiv(b.TotalTime, b.Calls)
		if pa != pb {
			return pa > pb
		}
	case SortCumTime:
		if a.CumTime != b.CumTime {
			return a.CumTime > b.CumTime
		}
	case SortFilename:
		// fall through to the location tiebreak below
	}

	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Name < b.Name
}

// statsLocation strips directories, matching the compact style of
// pstats' strip_dirs output.
func statsLocation(entry Entry) string {
	return fmt.Sprintf("%s:%d(%s)", filepath.Base(entry.File), entry.Line, entry.Name)
}

func safeDiv(t float64, n int64) float64 {
	if n == 0 {
		return 0
	}
	return t / float64(n)
}
