// main is the entry point for the docscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/docscope/cmd"
	"github.com/huangsam/docscope/internal/iostore"
)

func main() {
	defer iostore.CloseStores()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to stop profiling: %v\n", stopErr)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		iostore.CloseStores()
		os.Exit(1)
	}
}
