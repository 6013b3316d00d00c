// Package cli implements the modhaven commands. Commands load configuration,
// wire the registry and install pipeline together and render results; all mod
// semantics live in the pkg packages.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/haldre/modhaven/internal/logger"
	"github.com/haldre/modhaven/pkg/archive"
	"github.com/haldre/modhaven/pkg/config"
	"github.com/haldre/modhaven/pkg/download"
	"github.com/haldre/modhaven/pkg/fsutil"
	"github.com/haldre/modhaven/pkg/hook"
	"github.com/haldre/modhaven/pkg/installer"
	"github.com/haldre/modhaven/pkg/registry"
)

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
	GameDir    *string
)

// loadConfig loads the configuration, applies CLI flag overrides and
// initializes the logger.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if GameDir != nil && *GameDir != "" {
		cfg.Settings.GameDir = *GameDir
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	logger.Init(cfg.Settings.LogLevel)
	return cfg, nil
}

// configFilePath resolves the path the config command reads and writes.
func configFilePath() (string, error) {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath, nil
	}
	return config.GetDefaultConfigPath()
}

// requireModsDir returns the mods directory or a setup hint when the game
// directory is not configured yet.
func requireModsDir(cfg *config.Config) (string, error) {
	modsDir := cfg.ModsDir()
	if modsDir == "" {
		return "", fmt.Errorf("game directory is not configured; run 'modhaven config set game_dir <path>' or pass --game-dir")
	}
	return modsDir, nil
}

// scanRegistry loads the installed mods from disk.
func scanRegistry(cfg *config.Config) (*registry.Registry, string, error) {
	modsDir, err := requireModsDir(cfg)
	if err != nil {
		return nil, "", err
	}
	reg, err := registry.Scan(modsDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to scan mods directory: %w", err)
	}
	return reg, modsDir, nil
}

// newInstallService wires an install service from the configuration.
func newInstallService(cfg *config.Config, modsDir string) (*installer.Service, error) {
	stagingDir, err := cfg.StagingDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve staging directory: %w", err)
	}
	downloadDir, err := cfg.DownloadDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve download directory: %w", err)
	}

	fetcher := download.NewManager(cfg.Settings.HTTPTimeout)
	return installer.NewService(modsDir, stagingDir, downloadDir, archive.NewManager(), fetcher, loadHooks()), nil
}

// loadHooks builds a hook manager from the user's hook scripts directory.
func loadHooks() *hook.Manager {
	hooks := hook.NewManager()
	if configDir, err := fsutil.ConfigDir(); err == nil {
		if err := hook.LoadDir(hooks, filepath.Join(configDir, "hooks")); err != nil {
			logger.Warn("failed to load hook scripts", logger.Fields{"error": err.Error()})
		}
	}
	return hooks
}

// confirm asks a yes/no question on stdin and defaults to no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
