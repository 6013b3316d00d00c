// Package model provides the data structures shared between the registry, the
// install pipeline and the version reconciler.
package model

import (
	"github.com/hashicorp/go-version"
)

// ModEntry represents the known state of an installed or incoming mod.
//
// Enabled and RemoteVersion are never read from a manifest; they are computed
// by the caller (the enabled-mods file and the version reconciler
// respectively). Path is the mod's root directory on disk.
type ModEntry struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Author            string `json:"author"`
	Version           string `json:"version"`
	GameVersion       string `json:"gameVersion"`
	Description       string `json:"description"`
	VersionCheckerURL string `json:"versionCheckerURL,omitempty"`

	Enabled       bool               `json:"-"`
	Path          string             `json:"-"`
	RemoteVersion *RemoteVersionInfo `json:"-"`
}

// GetVersion returns the parsed local version, or nil if it is not a valid
// version string.
func (e *ModEntry) GetVersion() *version.Version {
	v, err := version.NewVersion(e.Version)
	if err != nil {
		return nil
	}
	return v
}

// RemoteVersionInfo is the metadata published at a mod's version checker URL,
// normalized by the version reconciler.
type RemoteVersionInfo struct {
	Version           string
	DirectDownloadURL string
}

// GetVersion returns the parsed remote version, or nil if it is not valid.
func (r *RemoteVersionInfo) GetVersion() *version.Version {
	v, err := version.NewVersion(r.Version)
	if err != nil {
		return nil
	}
	return v
}
