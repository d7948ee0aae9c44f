package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/clacker/pkg/cli"
	"github.com/haivivi/clacker/pkg/trigger"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List keyboard input devices",
	Long: `List the input devices under /dev/input that can type.

A device counts as a keyboard when it reports key events for letters, Enter
and Space. Pass one of the listed paths to 'clacker run --device'. Devices
you may not open are not listed; reading them usually requires membership of
the input group.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kbds, err := trigger.FindKeyboards()
		if err != nil {
			return err
		}
		if len(kbds) == 0 && formatOutput == "table" {
			cli.PrintWarning("No keyboards found.")
			cli.PrintInfo("Use 'clacker run --source terminal' to read keys from the terminal instead.")
			return nil
		}
		return output(keyboardList(kbds))
	},
}

type keyboardList []trigger.Keyboard

func (l keyboardList) Header() []string {
	return []string{"PATH", "NAME"}
}

func (l keyboardList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, k := range l {
		rows = append(rows, []string{k.Path, k.Name})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
