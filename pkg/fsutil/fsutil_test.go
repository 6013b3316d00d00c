package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveAtomic(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "file.txt"), []byte("content"), 0o644))

	dst := filepath.Join(tempDir, "deep", "dst")
	require.NoError(t, MoveAtomic(src, dst))

	assert.NoDirExists(t, src)
	data, err := os.ReadFile(filepath.Join(dst, "nested", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestMoveAtomicEmptyPaths(t *testing.T) {
	assert.Error(t, MoveAtomic("", "/tmp/x"))
	assert.Error(t, MoveAtomic("/tmp/x", ""))
}

func TestMoveAtomicMissingSource(t *testing.T) {
	tempDir := t.TempDir()
	err := MoveAtomic(filepath.Join(tempDir, "absent"), filepath.Join(tempDir, "dst"))
	assert.Error(t, err)
}

func TestCopyDir(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("deep"), 0o600))

	dst := filepath.Join(tempDir, "dst")
	require.NoError(t, CopyDir(src, dst))

	// Source stays intact.
	assert.FileExists(t, filepath.Join(src, "top.txt"))

	data, err := os.ReadFile(filepath.Join(dst, "a", "b", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(data))

	info, err := os.Stat(filepath.Join(dst, "a", "b", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCopyDirRejectsFile(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, CopyDir(file, filepath.Join(tempDir, "dst")))
}
