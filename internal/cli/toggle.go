package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haldre/modhaven/pkg/hook"
	"github.com/haldre/modhaven/pkg/model"
)

// NewEnableCmd creates the enable command.
func NewEnableCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "enable [MOD_ID...]",
		Short: "Enable installed mods",
		Long: `Enable one or more installed mods by id. The enabled-mods file is
rewritten in full on every change.`,
		RunE: func(_ *cobra.Command, args []string) error {
			return runToggle(args, all, true)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Enable every installed mod")

	return cmd
}

// NewDisableCmd creates the disable command.
func NewDisableCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "disable [MOD_ID...]",
		Short: "Disable installed mods",
		RunE: func(_ *cobra.Command, args []string) error {
			return runToggle(args, all, false)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Disable every installed mod")

	return cmd
}

func runToggle(ids []string, all, enabled bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, modsDir, err := scanRegistry(cfg)
	if err != nil {
		return err
	}

	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}

	if all {
		if err := reg.SetAllEnabled(modsDir, enabled); err != nil {
			return err
		}
		for _, mod := range reg.All() {
			runToggleHook(mod, enabled)
		}
		fmt.Printf("%s all %d mods\n", verb, reg.Len())
		return nil
	}

	if len(ids) == 0 {
		return fmt.Errorf("no mod ids given (use --all to toggle everything)")
	}

	for _, id := range ids {
		if err := reg.SetEnabled(modsDir, id, enabled); err != nil {
			return err
		}
		mod, _ := reg.Get(id)
		runToggleHook(mod, enabled)
		fmt.Printf("%s %s\n", verb, id)
	}
	return nil
}

// runToggleHook fires the post-enable or post-disable hook for a mod.
// Hook failures never fail the toggle; the state file is already written.
func runToggleHook(mod *model.ModEntry, enabled bool) {
	if mod == nil {
		return
	}

	hookType := hook.PostDisable
	if enabled {
		hookType = hook.PostEnable
	}

	hooks := loadHooks()
	if hooks == nil || !hooks.Has(hookType) {
		return
	}
	if err := hooks.Execute(hookType, hook.Context{
		ModID:      mod.ID,
		ModName:    mod.Name,
		ModVersion: mod.Version,
		ModPath:    mod.Path,
	}); err != nil {
		fmt.Printf("Warning: %s hook failed for %s: %v\n", hookType, mod.ID, err)
	}
}
