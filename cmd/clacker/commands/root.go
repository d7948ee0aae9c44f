package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/clacker/cmd/clacker/internal/config"
	"github.com/haivivi/clacker/pkg/cli"
)

const appName = "clacker"

var (
	// Global flags
	verbose      bool
	formatOutput string
	configFile   string
)

var rootCmd = &cobra.Command{
	Use:   "clacker",
	Short: "Mechanical keyboard sounds for any keyboard",
	Long: `clacker - plays a click for every key you press.

Key presses are read from a Linux input device (evdev) or from the terminal.
Every press spawns a short sound that is mixed with the ones still ringing,
so fast typing overlaps naturally instead of cutting sounds off.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/clacker/config.yaml
  Linux:   ~/.config/clacker/config.yaml

Sound files are read from ~/.local/share/clacker by default.

Examples:
  # Write a default config file
  clacker config init

  # Play with the built-in synthesized clicks, reading the terminal
  clacker run --builtin --source terminal

  # Read a specific keyboard device
  clacker run --device /dev/input/by-id/usb-Acme_Keyboard-event-kbd`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "table", "output format (table, yaml, json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is the OS config directory)")
}

func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// getPaths returns the clacker directory layout.
func getPaths() (*cli.Paths, error) {
	p, err := cli.NewPaths(appName)
	if err != nil {
		return nil, fmt.Errorf("cannot determine user directories: %w", err)
	}
	return p, nil
}

// configPath returns the config file in use: --config, or the default.
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	p, err := getPaths()
	if err != nil {
		return "", err
	}
	return p.ConfigFile(), nil
}

// GetConfig loads and validates the configuration.
func GetConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

func output(result any) error {
	return cli.Output(result, cli.OutputOptions{
		Format: cli.OutputFormat(formatOutput),
		Writer: os.Stdout,
	})
}
