package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghostbust-dev/ghostbust/internal/trace"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ghostbust",
		Short: "Find orphaned (dead code) functions using runtime profiles",
		Long: `Ghostbust compares the functions declared in your source files
against the functions actually called while profiled scripts ran.
Declared functions that no recorded run ever called are orphans -
likely dead code.

Profile data is cached under .ghostbust/ (override with GHOSTBUST_DIR
or a .ghostbust.yaml file) and accumulates across runs.`,
	}

	profileCmd := &cobra.Command{
		Use:   "profile <script>",
		Short: "Profile a Python script and add the run to the cache",
		Args:  cobra.ExactArgs(1),
		RunE:  RunProfile,
	}
	addStatsFlags(profileCmd)

	statsCmd := &cobra.Command{
		Use:   "stats <script>",
		Short: "List the profiler stats for a cached script run",
		Args:  cobra.ExactArgs(1),
		RunE:  RunStats,
	}
	addStatsFlags(statsCmd)

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "List scripts currently in the profiler cache",
		Args:  cobra.NoArgs,
		RunE:  RunCache,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the profiler cache",
		Args:  cobra.NoArgs,
		RunE:  RunClear,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <pattern>...",
		Short: "List functions declared within code sources",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunInspect,
	}

	orphansCmd := &cobra.Command{
		Use:   "orphans <pattern>...",
		Short: "List declared functions which no profiled run ever called",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunOrphans,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ghostbust %s\n", version)
		},
	}

	rootCmd.AddCommand(
		profileCmd,
		statsCmd,
		cacheCmd,
		clearCmd,
		inspectCmd,
		orphansCmd,
		versionCmd,
	)

	return rootCmd
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("numlines", "n", trace.DefaultStatsLines, "Maximum number of stats rows to print")
	cmd.Flags().StringP("sortby", "s", string(trace.DefaultSortKey), "Sort key: ncalls|tottime|percall|cumtime|filename")
}
