// Package main is the entry point for the viscolab CLI.
package main

import (
	"os"

	"viscolab/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
