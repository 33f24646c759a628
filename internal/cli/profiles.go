package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tyria-tracker/tyria/internal/daemon"
)

func init() {
	profilesCmd.AddCommand(profilesCreateCmd)
	profilesCmd.AddCommand(profilesRmCmd)
	rootCmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List tracking profiles",
	RunE:  runProfilesList,
}

var profilesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesCreate,
}

var profilesRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a profile and its state",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesRm,
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	names, err := d.DB.ListProfiles()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runProfilesCreate(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.DB.CreateProfile(args[0]); err != nil {
		return err
	}
	fmt.Printf("Created profile %q.\n", args[0])
	return nil
}

func runProfilesRm(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.DB.DeleteProfile(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted profile %q.\n", args[0])
	return nil
}
