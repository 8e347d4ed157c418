package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func RunCache(cmd *cobra.Command, args []string) error {
	workDir, _, store, err := loadEnvironment()
	if err != nil {
		return err
	}

	scripts, err := store.Entries()
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		fmt.Println("The profiler cache is empty.")
		return nil
	}

	for _, script := range scripts {
		fmt.Printf("  %s\n", displayPath(script, workDir))
	}
	return nil
}

func RunClear(cmd *cobra.Command, args []string) error {
	_, _, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	return store.Clear()
}
