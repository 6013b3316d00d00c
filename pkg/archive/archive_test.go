package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndExtractRoundTrip(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := map[string]string{
		"wrapper/modA/mod_info.json": `{"id": "modA"}`,
		"wrapper/modA/data/file.txt": "payload",
		"readme.txt":                 "top level",
	}

	sourceDir := filepath.Join(tempDir, "source")
	for path, content := range testFiles {
		fullPath := filepath.Join(sourceDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}

	m := NewManager()
	ctx := context.Background()

	archivePath := filepath.Join(tempDir, "modA.tar.gz")
	require.NoError(t, m.Create(ctx, sourceDir, archivePath))
	require.FileExists(t, archivePath)

	extractDir := filepath.Join(tempDir, "extracted")
	require.NoError(t, m.Extract(ctx, archivePath, extractDir))

	for path, expected := range testFiles {
		content, err := os.ReadFile(filepath.Join(extractDir, path))
		require.NoError(t, err, "missing extracted file %s", path)
		assert.Equal(t, expected, string(content))
	}
}

func TestExtractCorruptArchive(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "broken.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("this is not a zip"), 0o644))

	m := NewManager()
	err := m.Extract(context.Background(), archivePath, filepath.Join(tempDir, "out"))
	assert.Error(t, err)
}

func TestExtractMissingArchive(t *testing.T) {
	tempDir := t.TempDir()
	m := NewManager()
	err := m.Extract(context.Background(), filepath.Join(tempDir, "absent.zip"), filepath.Join(tempDir, "out"))
	assert.Error(t, err)
}
