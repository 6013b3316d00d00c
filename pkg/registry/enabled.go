package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haldre/modhaven/pkg/errors"
	"github.com/haldre/modhaven/pkg/fsutil"
)

// EnabledModsFilename is the file inside the mods directory holding the set
// of enabled mod ids.
const EnabledModsFilename = "enabled_mods.json"

// EnabledMods mirrors the enabled-mods file. Ordering within the array is not
// significant; the file is rewritten in full on every toggle.
type EnabledMods struct {
	IDs []string `json:"enabledMods"`
}

// LoadEnabled reads the enabled-mods file from modsDir. A missing file means
// no mods are enabled.
func LoadEnabled(modsDir string) (EnabledMods, error) {
	data, err := os.ReadFile(filepath.Join(modsDir, EnabledModsFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return EnabledMods{IDs: []string{}}, nil
		}
		return EnabledMods{}, errors.Wrap(err, "failed to read enabled mods file")
	}

	var enabled EnabledMods
	if err := json.Unmarshal(data, &enabled); err != nil {
		return EnabledMods{}, errors.Wrap(err, "failed to parse enabled mods file")
	}
	if enabled.IDs == nil {
		enabled.IDs = []string{}
	}
	return enabled, nil
}

// Contains reports whether id is in the enabled set.
func (e EnabledMods) Contains(id string) bool {
	for _, enabled := range e.IDs {
		if enabled == id {
			return true
		}
	}
	return false
}

// Save rewrites the enabled-mods file in modsDir in full.
func (e EnabledMods) Save(modsDir string) error {
	if e.IDs == nil {
		e.IDs = []string{}
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode enabled mods")
	}
	if err := os.MkdirAll(modsDir, fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create mods directory")
	}
	if err := os.WriteFile(filepath.Join(modsDir, EnabledModsFilename), data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(err, "failed to write enabled mods file")
	}
	return nil
}

func errModNotFound(id string) error {
	return fmt.Errorf("mod %s is not registered", id)
}
