// Package main is the entry point for the ProViewz API server and its
// maintenance commands.
package main

import (
	"os"

	"proviewz/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
