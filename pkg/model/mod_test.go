package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModEntryGetVersion(t *testing.T) {
	entry := &ModEntry{Version: "1.2.3"}
	v := entry.GetVersion()
	require.NotNil(t, v)
	assert.Equal(t, "1.2.3", v.String())

	entry.Version = "not a version"
	assert.Nil(t, entry.GetVersion())
}

func TestRemoteVersionComparison(t *testing.T) {
	local := &ModEntry{Version: "1.0"}
	remote := &RemoteVersionInfo{Version: "1.1"}

	require.NotNil(t, local.GetVersion())
	require.NotNil(t, remote.GetVersion())
	assert.True(t, remote.GetVersion().GreaterThan(local.GetVersion()))
}

func TestConflictIdentity(t *testing.T) {
	assert.False(t, ConflictIdentity{}.IsConflict())
	assert.True(t, ConflictIdentity{Kind: ConflictByID, ID: "modA"}.IsConflict())
	assert.True(t, ConflictIdentity{Kind: ConflictByPath, Path: "/mods/modA"}.IsConflict())
}

func TestIntentConstructors(t *testing.T) {
	initial := InitialIntent("/tmp/a.zip", "/tmp/b")
	assert.Equal(t, IntentInitial, initial.Kind)
	assert.Len(t, initial.Sources, 2)

	entry := &ModEntry{ID: "modA"}
	resumed := ResumedIntent(entry, PendingDestination{Staged: "/stage/x"}, ConflictIdentity{Kind: ConflictByID, ID: "modA"})
	assert.Equal(t, IntentResumed, resumed.Kind)
	assert.Equal(t, "modA", resumed.Conflict.ID)

	dl := DownloadIntent(entry)
	assert.Equal(t, IntentDownload, dl.Kind)
	assert.Same(t, entry, dl.Entry)
}
