package cmd

import (
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// repoSlug is the GitHub repository releases are fetched from
const repoSlug = "stackspot-labs/stackspot-agent"

// newSelfUpdateCmd creates the selfupdate command
func newSelfUpdateCmd() *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "selfupdate",
		Short: "Update stackspot-agent to the latest version",
		Long: `Check GitHub releases for a newer version of stackspot-agent and
replace the current binary with it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfUpdate(cmd, checkOnly)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for a newer version, do not install it")

	return cmd
}

func runSelfUpdate(cmd *cobra.Command, checkOnly bool) error {
	ctx := cmd.Context()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version could not be found from repository %s", repoSlug)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current version (%s) is the latest\n", version)
		return nil
	}

	if checkOnly {
		fmt.Printf("New version available: %s (current: %s)\n", latest.Version(), version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to version %s\n", latest.Version())
	return nil
}
