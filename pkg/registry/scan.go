package registry

import (
	"os"
	"path/filepath"

	"github.com/haldre/modhaven/internal/logger"
	"github.com/haldre/modhaven/pkg/errors"
	"github.com/haldre/modhaven/pkg/manifest"
)

// Scan builds a registry from the mods directory: every direct child
// directory with a parseable manifest becomes an entry, with its enabled flag
// taken from the enabled-mods file. Directories without a valid manifest are
// skipped with a debug log, matching how the game itself ignores them.
func Scan(modsDir string) (*Registry, error) {
	enabled, err := LoadEnabled(modsDir)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.Wrap(err, "failed to read mods directory")
	}

	reg := New()
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}
		modRoot := filepath.Join(modsDir, dirEntry.Name())
		entry, err := manifest.Parse(manifest.PathFor(modRoot))
		if err != nil {
			logger.Debug("skipping directory without valid manifest", logger.Fields{
				"dir":   modRoot,
				"error": err.Error(),
			})
			continue
		}
		entry.Enabled = enabled.Contains(entry.ID)
		reg.Upsert(entry)
	}
	return reg, nil
}
