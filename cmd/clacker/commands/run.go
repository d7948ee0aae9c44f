package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/clacker/cmd/clacker/internal/config"
	"github.com/haivivi/clacker/pkg/cli"
	"github.com/haivivi/clacker/pkg/engine"
	"github.com/haivivi/clacker/pkg/trigger"
)

var (
	runDevice    string
	runSource    string
	runBuiltin   bool
	runHeadless  bool
	runGain      float32
	runMaxVoices int
	runBuffer    string
	runNoKeyUp   bool
	runStats     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a sound for every key press",
	Long: `Play a sound for every key press until interrupted.

Flags override the config file for this run.

Sources:
  evdev      Linux input device; hears every key system-wide (default)
  terminal   keys typed into this terminal; needs no permissions

Examples:
  clacker run
  clacker run --device /dev/input/event3 --gain 0.6
  clacker run --builtin --source terminal
  clacker run --headless --source terminal -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := applyRunFlags(cmd, cfg); err != nil {
			return err
		}

		format, err := cfg.Format()
		if err != nil {
			return err
		}
		buffer, err := cfg.BufferDuration()
		if err != nil {
			return err
		}
		tbl, err := loadSounds(cfg)
		if err != nil {
			return err
		}
		slog.Info("sounds loaded",
			"sounds", len(tbl.Entries()),
			"memory", cli.FormatBytes(tbl.Bytes()))

		src, err := newSource(cfg)
		if err != nil {
			return err
		}

		driver := engine.OtoDriver
		if runHeadless {
			driver = engine.HeadlessDriver
		}
		ecfg := engine.Config{
			Format:    format,
			Buffer:    buffer,
			MaxVoices: cfg.MaxVoices,
			QueueSize: cfg.QueueSize,
			Gain:      cfg.Gain,
			Linger:    250 * time.Millisecond,
		}
		if runStats || IsVerbose() {
			ecfg.StatsInterval = 5 * time.Second
		}
		e, err := engine.New(ecfg, tbl, src, driver)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := e.Run(ctx); err != nil {
			return err
		}
		if runStats {
			return output(e.Stats())
		}
		return nil
	},
}

// applyRunFlags copies explicitly set flags over cfg and revalidates it.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Input.Device = runDevice
		cfg.Input.Source = config.SourceEvdev
	}
	if flags.Changed("source") {
		cfg.Input.Source = runSource
	}
	if flags.Changed("builtin") {
		cfg.Sounds.Builtin = runBuiltin
	}
	if flags.Changed("gain") {
		cfg.Gain = runGain
	}
	if flags.Changed("max-voices") {
		cfg.MaxVoices = runMaxVoices
	}
	if flags.Changed("buffer") {
		cfg.Buffer = runBuffer
	}
	if runNoKeyUp {
		cfg.Input.KeyUp = false
	}
	return cfg.Validate()
}

// newSource opens the configured key event source.
func newSource(cfg *config.Config) (trigger.Source, error) {
	switch cfg.Input.Source {
	case config.SourceTerminal:
		return trigger.NewTerminal(os.Stdin, cfg.Input.KeyUp), nil
	case config.SourceEvdev:
		device := cfg.Input.Device
		if device == "" {
			kbds, err := trigger.FindKeyboards()
			if err != nil {
				return nil, err
			}
			if len(kbds) == 0 {
				return nil, errors.New("no readable keyboard under /dev/input; pass --device or use --source terminal")
			}
			device = kbds[0].Path
		}
		slog.Debug("keyboard selected", "device", device)
		return trigger.NewEvdev(device, cfg.Input.KeyUp), nil
	}
	return nil, fmt.Errorf("unknown input source %q", cfg.Input.Source)
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runDevice, "device", "", "input event device to read (implies --source evdev)")
	f.StringVar(&runSource, "source", "", "key source: evdev or terminal")
	f.BoolVar(&runBuiltin, "builtin", false, "use the built-in synthesized sounds")
	f.BoolVar(&runHeadless, "headless", false, "mix without an audio device")
	f.Float32Var(&runGain, "gain", 1, "master gain")
	f.IntVar(&runMaxVoices, "max-voices", 64, "maximum simultaneous sounds, 0 for no limit")
	f.StringVar(&runBuffer, "buffer", "10ms", "audio device buffer")
	f.BoolVar(&runNoKeyUp, "no-key-up", false, "do not play key release sounds")
	f.BoolVar(&runStats, "stats", false, "log mixer stats and print a summary on exit")
	rootCmd.AddCommand(runCmd)
}
