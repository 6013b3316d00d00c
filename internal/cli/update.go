package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/haldre/modhaven/pkg/model"
	"github.com/haldre/modhaven/pkg/versioncheck"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	var (
		apply     bool
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check installed mods for newer remote versions",
		Long: `Check every installed mod that declares a version checker URL against its
published remote metadata and report the ones with a strictly newer version.

With --apply, each update that provides a direct download URL is fetched and
re-installed through the normal install flow, including conflict detection:
the currently installed version is the expected collision and overwriting it
is confirmed per mod (or for all with --overwrite).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, apply, overwrite)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Download and install available updates")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite the installed versions without asking")

	return cmd
}

func runUpdate(cmd *cobra.Command, apply, overwrite bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, modsDir, err := scanRegistry(cfg)
	if err != nil {
		return err
	}

	checker := versioncheck.NewChecker(cfg.Settings.HTTPTimeout, cfg.Settings.MaxConcurrentChecks)
	updates := checker.CheckAll(cmd.Context(), reg.All())
	if len(updates) == 0 {
		fmt.Println("All mods are up to date")
		return nil
	}

	for _, update := range updates {
		fmt.Printf("%s %s: %s -> %s\n",
			color.YellowString("↑"), update.Entry.ID, update.Entry.Version, update.Remote.Version)
	}

	if !apply {
		fmt.Printf("\n%d updates available (re-run with --apply to install)\n", len(updates))
		return nil
	}

	svc, err := newInstallService(cfg, modsDir)
	if err != nil {
		return err
	}
	snapshot := reg.Snapshot()

	started := 0
	for _, update := range updates {
		if update.Remote.DirectDownloadURL == "" {
			fmt.Printf("Skipping %s: no direct download URL\n", update.Entry.ID)
			continue
		}
		update.Entry.RemoteVersion = update.Remote
		if err := svc.Install(cmd.Context(), model.DownloadIntent(update.Entry), snapshot); err != nil {
			return err
		}
		started++
	}
	if started == 0 {
		return nil
	}

	failed := consumeMessages(cmd, svc, reg, snapshot, started, overwrite)
	if failed > 0 {
		return fmt.Errorf("%d of %d updates failed", failed, started)
	}
	return nil
}
