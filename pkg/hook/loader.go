package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// scriptExtension is the only recognized hook script extension.
const scriptExtension = ".tengo"

var knownTypes = map[Type]bool{
	PostInstall: true,
	PostEnable:  true,
	PostDisable: true,
}

// LoadDir registers every recognized hook script in dir, named
// <hook-type>.tengo. A missing directory is not an error.
func LoadDir(manager *Manager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hooks directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != scriptExtension {
			continue
		}
		hookType := Type(strings.TrimSuffix(entry.Name(), scriptExtension))
		if !knownTypes[hookType] {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read hook script %s: %w", entry.Name(), err)
		}
		if err := manager.Add(hookType, string(content)); err != nil {
			return err
		}
	}
	return nil
}
