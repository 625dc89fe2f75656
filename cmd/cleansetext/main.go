// Package main is the entry point for the cleansetext CLI.
package main

import (
	"os"

	"github.com/alejandroruanova/cleansetext/cmd/cleansetext/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
