// Package main is the entry point for the clacker CLI.
//
// Usage:
//
//	clacker [flags] <command> [args]
//
// Commands:
//
//	run        - Play a sound for every key press
//	sounds     - List the loaded sound pack
//	devices    - List keyboard input devices
//	config     - Configuration management (init, show, path)
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/clacker/cmd/clacker/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
