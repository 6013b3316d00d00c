package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/haldre/modhaven/pkg/installer"
	"github.com/haldre/modhaven/pkg/model"
	"github.com/haldre/modhaven/pkg/registry"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		overwrite    bool
		sweepStaging bool
	)

	cmd := &cobra.Command{
		Use:   "install [ARCHIVE|FOLDER...]",
		Short: "Install mods from archives or folders",
		Long: `Install one or more mods. Each source may be an archive file or an
already-extracted folder; folders are copied, never moved.

When a source collides with an installed mod (same id or occupied path) the
install is suspended and you are asked whether to overwrite. --overwrite
answers yes for every collision.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if sweepStaging && len(args) == 0 {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args, overwrite, sweepStaging)
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite conflicting mods without asking")
	cmd.Flags().BoolVar(&sweepStaging, "sweep-staging", false, "Remove leftover staging directories from abandoned installs")

	return cmd
}

func runInstall(cmd *cobra.Command, sources []string, overwrite, sweepStaging bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, modsDir, err := scanRegistry(cfg)
	if err != nil {
		return err
	}
	svc, err := newInstallService(cfg, modsDir)
	if err != nil {
		return err
	}

	if sweepStaging {
		removed, err := svc.SweepStaging()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d leftover staging directories\n", removed)
		if len(sources) == 0 {
			return nil
		}
	}

	snapshot := reg.Snapshot()
	if err := svc.Install(cmd.Context(), model.InitialIntent(sources...), snapshot); err != nil {
		return err
	}

	failed := consumeMessages(cmd, svc, reg, snapshot, len(sources), overwrite)
	if failed > 0 {
		return fmt.Errorf("%d of %d installs failed", failed, len(sources))
	}
	return nil
}

// consumeMessages drains the install message stream until every outstanding
// task has terminated. Duplicate messages keep their task outstanding when
// the overwrite is confirmed and a Resumed intent is issued; an abandoned
// conflict counts as resolved. Returns the number of failed tasks.
func consumeMessages(cmd *cobra.Command, svc *installer.Service, reg *registry.Registry, snapshot map[string]string, outstanding int, overwrite bool) int {
	failed := 0
	for outstanding > 0 {
		msg := <-svc.Messages()
		switch msg.Kind {
		case model.MessageSuccess:
			outstanding--
			reg.Upsert(msg.Entry)
			fmt.Printf("%s Installed %s %s\n", color.GreenString("✓"), msg.Entry.ID, msg.Entry.Version)

		case model.MessageError:
			outstanding--
			failed++
			fmt.Printf("%s %s\n", color.RedString("✗"), msg.Err)

		case model.MessageDuplicate:
			if !confirmOverwrite(msg, overwrite) {
				outstanding--
				fmt.Printf("Skipped %s\n", msg.Entry.ID)
				continue
			}
			if err := svc.Install(cmd.Context(), model.ResumedIntent(msg.Entry, msg.Destination, msg.Conflict), snapshot); err != nil {
				outstanding--
				failed++
				fmt.Printf("%s %s\n", color.RedString("✗"), err)
				continue
			}
			// The resumed task deletes the occupying mod, which may be
			// registered under its own id; drop that entry so the registry
			// never claims a removed path.
			if msg.Conflict.Kind == model.ConflictByPath {
				reg.RemoveByPath(msg.Conflict.Path)
			}
		}
	}
	svc.Wait()
	return failed
}

func confirmOverwrite(msg model.InstallMessage, overwrite bool) bool {
	if overwrite {
		return true
	}
	switch msg.Conflict.Kind {
	case model.ConflictByID:
		return confirm(fmt.Sprintf("Mod %s is already installed at %s. Overwrite?", msg.Conflict.ID, msg.Conflict.Path))
	case model.ConflictByPath:
		return confirm(fmt.Sprintf("Path %s is already occupied. Overwrite?", msg.Conflict.Path))
	default:
		return false
	}
}
