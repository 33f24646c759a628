package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tyria-tracker/tyria/internal/daemon"
)

func init() {
	tasksCmd.Flags().StringVar(&tasksProfile, "profile", "", "Profile to show (default profile if empty)")
	rootCmd.AddCommand(tasksCmd)
}

var tasksProfile string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Show the daily checklist",
	Long:  `Show today's gathering, crafting, and special tasks with completion marks.`,
	RunE:  runTasks,
}

func runTasks(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	tasks, err := d.Tracker.Tasks(tasksProfile, d.Tracker.Now())
	if err != nil {
		return err
	}

	done := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \tCATEGORY\tTASK\tWAYPOINT")
	for _, task := range tasks {
		mark := "[ ]"
		if task.Done {
			mark = "[x]"
			done++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, task.Category, task.Name, task.Waypoint)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d done\n", done, len(tasks))
	return nil
}
