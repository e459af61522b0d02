// main is the entry point for the aeroindex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/aeroindex/aeroindex/cmd"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Warn stopping profiler:", stopErr)
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
