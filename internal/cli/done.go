package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tyria-tracker/tyria/internal/daemon"
	"github.com/tyria-tracker/tyria/internal/domain"
)

func init() {
	doneCmd.Flags().StringVar(&doneProfile, "profile", "", "Profile to mark (default profile if empty)")
	doneCmd.Flags().BoolVar(&doneTask, "task", false, "Toggle a daily task: tyria done --task <category> <task-id>")
	rootCmd.AddCommand(doneCmd)
}

var (
	doneProfile string
	doneTask    bool
)

var doneCmd = &cobra.Command{
	Use:   "done <event-key> [occurrence-id]",
	Short: "Toggle a completion mark",
	Long: `Toggle completion for an event or a daily task.

With just an event key the whole event type is dismissed for the day.
With an occurrence ID only that one spawn is marked:

  tyria done tt_tequatl
  tyria done tt_tequatl tt_tequatl/00:00+0
  tyria done --task gathering vine_bridge`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	if doneTask {
		if len(args) != 2 {
			return fmt.Errorf("usage: tyria done --task <category> <task-id>")
		}
		done, err := d.Tracker.ToggleTask(doneProfile, domain.TaskCategory(args[0]), args[1])
		if err != nil {
			return err
		}
		if done {
			fmt.Printf("Marked %s/%s done.\n", args[0], args[1])
		} else {
			fmt.Printf("Cleared %s/%s.\n", args[0], args[1])
		}
		return nil
	}

	eventKey := args[0]
	occurrenceID := ""
	if len(args) == 2 {
		occurrenceID = args[1]
	}

	completed, err := d.Tracker.Toggle(doneProfile, occurrenceID, eventKey)
	if err != nil {
		return err
	}
	if completed {
		fmt.Printf("Marked %s completed.\n", eventKey)
	} else {
		fmt.Printf("Cleared %s.\n", eventKey)
	}
	return nil
}
