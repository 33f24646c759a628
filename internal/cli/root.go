// Package cli implements the Tyria Tracker command-line interface using Cobra.
// Each subcommand works against the local state directory; serve exposes the
// same state over HTTP for the dashboard.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tyria",
	Short: "Tyria Tracker — world boss timers and daily checklists",
	Long: `Tyria Tracker keeps the Guild Wars 2 event rotation on your machine.
It expands the fixed UTC schedule into a live board of active and upcoming
events, tracks per-profile completion, and resets dailies at UTC midnight.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var cliVersion = "dev"

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	cliVersion = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
