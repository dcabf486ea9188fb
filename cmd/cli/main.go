// Package main is the entry point for the calc CLI.
package main

import (
	"os"

	"calcengine/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
