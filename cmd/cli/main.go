// Package main is the entry point for the pproi CLI.
package main

import (
	"os"

	"pingplotter-roi/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
