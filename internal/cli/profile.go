package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghostbust-dev/ghostbust/internal/trace"
)

func RunProfile(cmd *cobra.Command, args []string) error {
	script := args[0]

	_, cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	sortBy, numLines, err := statsOptions(cmd, cfg)
	if err != nil {
		return err
	}

	sp := startSpinner(fmt.Sprintf("Profiling %s", script))
	artifact, err := store.Record(script)
	sp.Stop()
	if err != nil {
		return err
	}

	entries, err := trace.ReadArtifact(artifact)
	if err != nil {
		return err
	}
	fmt.Print(trace.RenderStats(entries, sortBy, numLines))
	return nil
}

func RunStats(cmd *cobra.Command, args []string) error {
	script := args[0]

	_, cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	sortBy, numLines, err := statsOptions(cmd, cfg)
	if err != nil {
		return err
	}

	artifact, ok, err := store.Lookup(script)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No cache entry for %q. Use \"ghostbust profile\" first.\n", script)
		return nil
	}

	entries, err := trace.ReadArtifact(artifact)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Trace data for %q is missing. Use \"ghostbust profile\" to re-record it.\n", script)
			return nil
		}
		return err
	}
	fmt.Print(trace.RenderStats(entries, sortBy, numLines))
	return nil
}
