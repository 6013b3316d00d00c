package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/haldre/modhaven/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	gameDir    string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modhaven",
		Short: "A mod manager for your game installs",
		Long: `modhaven manages game mods:
- install mods from archives or folders, with conflict handling
- enable and disable installed mods
- check installed mods for newer versions and apply updates`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&gameDir, "game-dir", "", "game install directory (overrides config)")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.GameDir = &gameDir

	// Add subcommands
	cmd.AddCommand(
		cli.NewListCmd(),
		cli.NewInstallCmd(),
		cli.NewEnableCmd(),
		cli.NewDisableCmd(),
		cli.NewUpdateCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
