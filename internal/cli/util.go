package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghostbust-dev/ghostbust/internal/config"
	"github.com/ghostbust-dev/ghostbust/internal/trace"
)

func resolveWorkingDirectory() (string, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return workDir, nil
}

// loadEnvironment resolves the working directory, the effective
// configuration, and the trace store it points at. Every command goes
// through here so the store never reads the environment itself.
func loadEnvironment() (string, config.Config, *trace.Store, error) {
	workDir, err := resolveWorkingDirectory()
	if err != nil {
		return "", config.Config{}, nil, err
	}
	cfg, err := config.Load(workDir)
	if err != nil {
		return "", config.Config{}, nil, err
	}
	return workDir, cfg, trace.NewStore(cfg.Dir, cfg.Interpreter), nil
}

// statsOptions reads the stats flags, falling back to the configured
// defaults when a flag was not set on the command line.
func statsOptions(cmd *cobra.Command, cfg config.Config) (trace.SortKey, int, error) {
	sortValue := cfg.Stats.SortBy
	if cmd.Flags().Changed("sortby") {
		value, err := cmd.Flags().GetString("sortby")
		if err != nil {
			return "", 0, fmt.Errorf("failed to read --sortby flag: %w", err)
		}
		sortValue = value
	}
	sortBy, err := trace.ParseSortKey(sortValue)
	if err != nil {
		return "", 0, err
	}

	numLines := cfg.Stats.NumLines
	if cmd.Flags().Changed("numlines") {
		value, err := cmd.Flags().GetInt("numlines")
		if err != nil {
			return "", 0, fmt.Errorf("failed to read --numlines flag: %w", err)
		}
		numLines = value
	}

	return sortBy, numLines, nil
}
