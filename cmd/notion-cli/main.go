// Package main is the entry point for the notion-cli tool.
package main

import (
	"os"

	"github.com/aidanlsb/notion-cli/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
