// Package cli provides common utilities for the clacker command-line tool.
//
// This package includes:
//   - Output formatting (YAML, JSON, table)
//   - Config and data directory resolution
//   - Human-readable sizes and durations
//
// Example usage:
//
//	paths, err := cli.NewPaths("clacker")
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatTable,
//	})
package cli
