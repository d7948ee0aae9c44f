package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/clacker/cmd/clacker/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if formatOutput == "json" || formatOutput == "yaml" {
			return output(build.Get())
		}
		fmt.Println(build.String())
		if IsVerbose() {
			fmt.Printf("  go:     %s\n", build.Get().Go)
			if path, err := configPath(); err == nil {
				fmt.Printf("  config: %s\n", path)
			} else {
				fmt.Printf("  config: (unavailable: %v)\n", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
