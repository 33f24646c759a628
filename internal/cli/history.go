package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tyria-tracker/tyria/internal/daemon"
	"github.com/tyria-tracker/tyria/internal/domain"
)

func init() {
	historyCmd.Flags().StringVar(&historyProfile, "profile", "", "Profile to show (default profile if empty)")
	historyCmd.Flags().BoolVar(&historyRemote, "remote", false, "Read history from the sync backend instead of local state")
	rootCmd.AddCommand(historyCmd)
}

var (
	historyProfile string
	historyRemote  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived daily checklist progress",
	Long:  `Show the tasks completed on past UTC days, archived at each daily reset.`,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	var days []domain.HistoryDay
	if historyRemote {
		if d.Syncer == nil {
			return domain.ErrSyncDisabled
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		days, err = d.Syncer.FetchHistory(ctx)
	} else {
		days, err = d.Tracker.History(historyProfile)
	}
	if err != nil {
		return err
	}

	if len(days) == 0 {
		fmt.Println("No history yet. Days are archived at each UTC midnight reset.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDONE\tTASKS")
	for _, day := range days {
		var ids []string
		for _, tasks := range day.Progress {
			for id, done := range tasks {
				if done {
					ids = append(ids, id)
				}
			}
		}
		sort.Strings(ids)
		fmt.Fprintf(w, "%s\t%d\t%s\n", day.Date, day.DoneCount(), strings.Join(ids, ", "))
	}
	return w.Flush()
}
