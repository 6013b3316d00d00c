package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/haldre/modhaven/pkg/manifest"
)

// LocateRoot finds the true mod root inside searchDir: the first directory, in
// depth-first order, that directly contains a manifest file. Archives commonly
// wrap the real mod in one or more enclosing folders, so the top level is
// rarely the root itself. Returns "" when no manifest exists anywhere in the
// tree.
func LocateRoot(searchDir string) (string, error) {
	info, err := os.Stat(searchDir)
	if err != nil {
		return "", fmt.Errorf("failed to stat search directory %s: %w", searchDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("search path %s is not a directory", searchDir)
	}

	if _, err := os.Stat(manifest.PathFor(searchDir)); err == nil {
		return searchDir, nil
	}

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", searchDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		root, err := LocateRoot(filepath.Join(searchDir, entry.Name()))
		if err != nil {
			return "", err
		}
		if root != "" {
			return root, nil
		}
	}
	return "", nil
}
