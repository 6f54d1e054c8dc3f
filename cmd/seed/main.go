// Command seed ensures the default roles and the optional bootstrap admin
// account exist in the configured database.
package main

import (
	"fmt"
	"os"

	seedtool "ai-samples-api/internal/tools/seed"
)

func main() {
	if err := seedtool.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
