package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tyria-tracker/tyria/internal/daemon"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all daily state now",
	Long:  `Clear completion marks and checklist progress for every profile, as the UTC midnight reset would.`,
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Tracker.ForceReset(d.Tracker.Now()); err != nil {
		return err
	}
	fmt.Println("Daily state cleared.")
	return nil
}
