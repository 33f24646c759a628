package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tyria-tracker/tyria/internal/app/prices"
	"github.com/tyria-tracker/tyria/internal/daemon"
	"github.com/tyria-tracker/tyria/internal/domain"
)

func init() {
	eventsCmd.Flags().StringVar(&eventsProfile, "profile", "", "Profile to show (default profile if empty)")
	eventsCmd.Flags().BoolVar(&eventsAll, "all", false, "Show the full day instead of the next two hours")
	rootCmd.AddCommand(eventsCmd)
}

var (
	eventsProfile string
	eventsAll     bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the event board",
	Long:  `Show active and upcoming world boss events, with completed ones set aside.`,
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	if eventsAll {
		cfg.Scheduler.Horizon = "24h"
	}

	d, err := daemon.NewWithConfig(cfg, cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	snap, err := d.Tracker.Evaluate(eventsProfile, d.Tracker.Now())
	if err != nil {
		return err
	}

	if len(snap.Active) == 0 && len(snap.CompletedGroups) == 0 {
		fmt.Println("Nothing on the board. Try 'tyria events --all' for the full day.")
		return nil
	}

	// Best-effort price lookup: a slow or offline trading post never
	// blocks the board.
	if d.Prices != nil {
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		if err := d.Prices.Fetch(ctx, prices.RewardItemIDs(d.Catalog.Events)); err != nil {
			fmt.Fprintf(os.Stderr, "tyria: reward prices unavailable: %v\n", err)
		}
		cancel()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tEVENT\tMAP\tWHEN\tWAYPOINT\tREWARD")
	for _, o := range snap.Active {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Status, o.Name, o.Map, describeTiming(o, snap.Now), o.Waypoint,
			rewardValue(o, d.Prices))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(snap.CompletedGroups) > 0 {
		fmt.Println()
		fmt.Println("Completed:")
		for key, group := range snap.CompletedGroups {
			name := key
			if len(group) > 0 {
				name = group[0].Name
			}
			fmt.Printf("  %s (%d upcoming dismissed)\n", name, len(group))
		}
	}

	fmt.Printf("\n%d active, %d upcoming (profile %q, %s UTC)\n",
		snap.ActiveCount, snap.UpcomingCount, snap.Profile,
		snap.Now.Format("15:04"))
	return nil
}

// describeTiming renders the countdown column: time left for active
// occurrences, time until start for upcoming ones.
func describeTiming(o domain.Occurrence, now time.Time) string {
	if o.Status == domain.Active {
		return fmt.Sprintf("%s left", formatCountdown(o.EndTime.Sub(now)))
	}
	return fmt.Sprintf("in %s", formatCountdown(o.StartTime.Sub(now)))
}

// rewardValue sums the trading post sell value of an occurrence's item
// rewards. Empty when prices are disabled or nothing is priced yet.
func rewardValue(o domain.Occurrence, svc *prices.Service) string {
	if svc == nil {
		return ""
	}
	total := 0
	for _, r := range o.Rewards {
		if r.Kind != domain.RewardItem {
			continue
		}
		if p, ok := svc.Price(r.ItemID); ok {
			total += p
		}
	}
	if total == 0 {
		return ""
	}
	return prices.FormatCopper(total)
}

// formatCountdown renders a duration as "1h05m" or "42m".
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
