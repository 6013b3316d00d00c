// Package registry owns the long-term state of installed mods: an ordered
// mapping of mod id to entry, the on-disk enabled-mods file, and the mods
// folder scan that populates both.
package registry

import (
	"sort"
	"sync"

	"github.com/haldre/modhaven/pkg/model"
)

// Registry is an ordered mapping of mod id to mod entry. It is the sole
// long-term owner of ModEntry values; the install pipeline only ever receives
// read-only snapshots and hands back fresh entries on success.
type Registry struct {
	mu   sync.RWMutex
	mods map[string]*model.ModEntry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{mods: make(map[string]*model.ModEntry)}
}

// Upsert inserts an entry or replaces an existing entry with the same id
// wholesale. Entries are never partially mutated on overwrite.
func (r *Registry) Upsert(entry *model.ModEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods[entry.ID] = entry
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (*model.ModEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.mods[id]
	return entry, ok
}

// Remove deletes the entry for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mods, id)
}

// RemoveByPath deletes the entry whose root directory is path, if any. Used
// when an overwrite displaces a mod registered under a different id.
func (r *Registry) RemoveByPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.mods {
		if entry.Path == path {
			delete(r.mods, id)
			return
		}
	}
}

// Len returns the number of registered mods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mods)
}

// All returns the entries ordered by id.
func (r *Registry) All() []*model.ModEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]*model.ModEntry, 0, len(r.mods))
	for _, entry := range r.mods {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// EnabledIDs returns the ids of all enabled mods, ordered.
func (r *Registry) EnabledIDs() []string {
	ids := []string{}
	for _, entry := range r.All() {
		if entry.Enabled {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// Snapshot returns an id-to-path view of the registry for in-flight install
// tasks. The map is a copy; pipeline tasks never see later mutations.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]string, len(r.mods))
	for id, entry := range r.mods {
		snapshot[id] = entry.Path
	}
	return snapshot
}

// SetEnabled toggles a mod and rewrites the enabled-mods file in full.
func (r *Registry) SetEnabled(modsDir, id string, enabled bool) error {
	r.mu.Lock()
	entry, ok := r.mods[id]
	if ok {
		entry.Enabled = enabled
	}
	r.mu.Unlock()
	if !ok {
		return errModNotFound(id)
	}
	return EnabledMods{IDs: r.EnabledIDs()}.Save(modsDir)
}

// SetAllEnabled toggles every mod and rewrites the enabled-mods file in full.
func (r *Registry) SetAllEnabled(modsDir string, enabled bool) error {
	r.mu.Lock()
	for _, entry := range r.mods {
		entry.Enabled = enabled
	}
	r.mu.Unlock()
	return EnabledMods{IDs: r.EnabledIDs()}.Save(modsDir)
}
