// Package main is the entry point for the pyr CLI tool.
package main

import (
	"os"

	"github.com/pyritehq/pyrite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
