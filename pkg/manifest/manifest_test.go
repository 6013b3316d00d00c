package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldre/modhaven/pkg/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseStrict(t *testing.T) {
	path := writeManifest(t, `{
		"id": "modA",
		"name": "Mod A",
		"author": "Someone",
		"version": "1.0.0",
		"gameVersion": "0.95a",
		"description": "A mod."
	}`)

	entry, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "modA", entry.ID)
	assert.Equal(t, "Mod A", entry.Name)
	assert.Equal(t, "Someone", entry.Author)
	assert.Equal(t, "1.0.0", entry.Version)
	assert.Equal(t, "0.95a", entry.GameVersion)
	assert.Equal(t, filepath.Dir(path), entry.Path)
	assert.False(t, entry.Enabled)
	assert.Nil(t, entry.RemoteVersion)
}

func TestParseRelaxed(t *testing.T) {
	path := writeManifest(t, `{
		// the id never changes between releases
		id: "modB",
		name: "Mod B", /* display name */
		version: "2.1",
		gameVersion: "0.95a",
		versionCheckerURL: "https://example.com/modB.version",
	}`)

	entry, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "modB", entry.ID)
	assert.Equal(t, "", entry.Author)
	assert.Equal(t, "https://example.com/modB.version", entry.VersionCheckerURL)
}

func TestParseMissingField(t *testing.T) {
	path := writeManifest(t, `{"id": "modC", "name": "Mod C", "version": "1.0"}`)

	_, err := Parse(path)
	require.ErrorIs(t, err, errors.ErrManifestMissingField)
	assert.Contains(t, err.Error(), "gameVersion")
}

func TestParseMalformed(t *testing.T) {
	path := writeManifest(t, `{"id": "modD", "name": `)

	_, err := Parse(path)
	assert.ErrorIs(t, err, errors.ErrManifestMalformed)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), Filename))
	assert.Error(t, err)
}

func TestStripComments(t *testing.T) {
	in := []byte(`{
	// line comment
	"url": "https://example.com/not//a/comment", /* block
	comment */ "slash": "a\"b//c"
}`)
	out := string(StripComments(in))
	assert.NotContains(t, out, "line comment")
	assert.NotContains(t, out, "block")
	assert.Contains(t, out, "https://example.com/not//a/comment")
	assert.Contains(t, out, `a\"b//c`)
}
