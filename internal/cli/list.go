package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/haldre/modhaven/pkg/model"
	"github.com/haldre/modhaven/pkg/versioncheck"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var checkUpdates bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed mods",
		Long: `List all mods found in the game's mods directory.

Shows each mod's id, name, version and enabled state. With --check-updates
(or check_updates_on_list in the config) the remote version of every mod that
declares a version checker URL is fetched and shown alongside.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, checkUpdates)
		},
	}

	cmd.Flags().BoolVarP(&checkUpdates, "check-updates", "u", false, "Fetch remote versions while listing")

	return cmd
}

func runList(cmd *cobra.Command, checkUpdates bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, _, err := scanRegistry(cfg)
	if err != nil {
		return err
	}

	mods := reg.All()
	if len(mods) == 0 {
		fmt.Println("No mods installed")
		return nil
	}

	if checkUpdates || cfg.Settings.CheckUpdatesOnList {
		checker := versioncheck.NewChecker(cfg.Settings.HTTPTimeout, cfg.Settings.MaxConcurrentChecks)
		for _, update := range checker.CheckAll(cmd.Context(), mods) {
			update.Entry.RemoteVersion = update.Remote
		}
	}

	renderModTable(cmd, mods)
	fmt.Printf("\n%d mods, %d enabled\n", len(mods), len(reg.EnabledIDs()))
	return nil
}

func renderModTable(cmd *cobra.Command, mods []*model.ModEntry) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"ID", "Name", "Version", "Game Version", "Enabled", "Update"}),
		tablewriter.WithAlignment(tw.MakeAlign(6, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, mod := range mods {
		enabled := color.RedString("no")
		if mod.Enabled {
			enabled = color.GreenString("yes")
		}
		update := "-"
		if mod.RemoteVersion != nil && versioncheck.IsNewer(mod, mod.RemoteVersion) {
			update = color.YellowString(mod.RemoteVersion.Version)
		}
		table.Append(mod.ID, mod.Name, mod.Version, mod.GameVersion, enabled, update)
	}

	table.Render()
}
