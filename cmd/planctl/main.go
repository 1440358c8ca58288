// Command planctl is a CLI for the prodplan server.
package main

import (
	"fmt"
	"os"

	"github.com/example/prodplan/cmd/planctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
