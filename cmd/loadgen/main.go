// Command loadgen replays login, health and listing traffic profiles
// against a running API instance.
package main

import (
	"fmt"
	"os"

	loadgentool "ai-samples-api/internal/tools/loadgen"
)

func main() {
	if err := loadgentool.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "loadgen:", err)
		os.Exit(1)
	}
}
