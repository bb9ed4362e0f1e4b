// Command vaultscribe watches a Markdown vault and merges LLM analysis
// into changed notes.
package main

import (
	"os"

	"github.com/memolab/vaultscribe/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
