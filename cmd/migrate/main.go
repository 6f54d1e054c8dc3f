// Command migrate applies and inspects the user, role and user_role
// schema against the configured database.
package main

import (
	"fmt"
	"os"

	migratetool "ai-samples-api/internal/tools/migrate"
)

func main() {
	if err := migratetool.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
