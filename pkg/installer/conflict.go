package installer

import (
	"os"
	"path/filepath"

	"github.com/haldre/modhaven/pkg/model"
)

// DetectConflict decides whether installing candidate into modsDir would
// collide with what the snapshot or the filesystem already holds.
//
// Id collisions win over path collisions: a same-id mod is the same logical
// mod even when it lives at a different path, so it must be surfaced first.
// The snapshot maps known mod ids to their on-disk roots, which lets a ById
// conflict name the exact path the resume step has to remove.
func DetectConflict(candidate *model.ModEntry, modsDir string, snapshot map[string]string) model.ConflictIdentity {
	if existingPath, ok := snapshot[candidate.ID]; ok {
		return model.ConflictIdentity{Kind: model.ConflictByID, ID: candidate.ID, Path: existingPath}
	}

	dest := filepath.Join(modsDir, candidate.ID)
	if _, err := os.Stat(dest); err == nil {
		return model.ConflictIdentity{Kind: model.ConflictByPath, Path: dest}
	}

	return model.ConflictIdentity{Kind: model.ConflictNone}
}
