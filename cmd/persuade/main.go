// Command persuade runs two-agent persuasion dialogues over a catalog of
// engines.
package main

import (
	"os"

	"github.com/Iron-Ham/persuade/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
