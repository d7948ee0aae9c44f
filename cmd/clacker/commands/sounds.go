package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haivivi/clacker/cmd/clacker/internal/config"
	"github.com/haivivi/clacker/pkg/cli"
	"github.com/haivivi/clacker/pkg/soundpack"
)

var soundsBuiltin bool

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "List the sound pack",
	Long: `Decode the configured sound pack and list every sound per category.

This is a quick way to check that all files exist and match the output
format before running.

Examples:
  clacker sounds
  clacker sounds --builtin
  clacker sounds --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if soundsBuiltin {
			cfg.Sounds.Builtin = true
		}
		tbl, err := loadSounds(cfg)
		if err != nil {
			return err
		}
		return output(soundList(tbl.Entries()))
	},
}

// soundList prints as a table of entries.
type soundList []soundpack.Entry

func (l soundList) Header() []string {
	return []string{"CATEGORY", "SOUND", "LENGTH", "GAIN"}
}

func (l soundList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{
			e.Category,
			filepath.Base(e.Name),
			cli.FormatDuration(e.Duration),
			fmt.Sprintf("%.2f", e.Gain),
		})
	}
	return rows
}

// loadSounds builds the sound table described by cfg.
func loadSounds(cfg *config.Config) (*soundpack.Table, error) {
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}
	if cfg.Sounds.Builtin {
		return soundpack.Builtin(format)
	}
	p, err := getPaths()
	if err != nil {
		return nil, err
	}
	pack := cfg.SoundPack(p.DataDir())
	pack.Dir = p.ExpandHome(pack.Dir)
	tbl, err := soundpack.Load(pack, format)
	if err != nil {
		return nil, fmt.Errorf("%w (use --builtin to run without sound files)", err)
	}
	return tbl, nil
}

var _ cli.Tabular = soundList(nil)

func init() {
	soundsCmd.Flags().BoolVar(&soundsBuiltin, "builtin", false, "use the built-in synthesized sounds")
	rootCmd.AddCommand(soundsCmd)
}
