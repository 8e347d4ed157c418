package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghostbust-dev/ghostbust/internal/languages"
	"github.com/ghostbust-dev/ghostbust/internal/orphan"
)

func RunInspect(cmd *cobra.Command, args []string) error {
	workDir, _, _, err := loadEnvironment()
	if err != nil {
		return err
	}

	registry := languages.NewDefaultRegistry()
	sp := startSpinner("Inspecting sources")
	declared, err := registry.DeclaredFromPatterns(args)
	sp.Stop()
	if err != nil {
		return err
	}

	printRefTable(os.Stdout, declared.Sorted(), workDir)
	return nil
}

func RunOrphans(cmd *cobra.Command, args []string) error {
	workDir, _, store, err := loadEnvironment()
	if err != nil {
		return err
	}

	// An empty catalog would make every declared function look like an
	// orphan. Refuse instead of producing that misleading dump.
	scripts, err := store.Entries()
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		fmt.Println("The profiler cache is currently empty. Use \"ghostbust profile\" first.")
		return nil
	}

	registry := languages.NewDefaultRegistry()
	sp := startSpinner("Resolving orphans")
	declared, err := registry.DeclaredFromPatterns(args)
	if err != nil {
		sp.Stop()
		return err
	}
	called, err := store.CalledAll()
	sp.Stop()
	if err != nil {
		return err
	}

	printRefTable(os.Stdout, orphan.Resolve(declared, called), workDir)
	return nil
}
