package appctx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	tmpDir := t.TempDir()

	paths, err := NewPaths(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, tmpDir, paths.BaseDir)
	assert.Equal(t, filepath.Join(tmpDir, "config.yaml"), paths.ConfigFile)
	assert.Equal(t, filepath.Join(tmpDir, "logs", "logsight.log"), paths.LogFile)
}

func TestPaths_Directories(t *testing.T) {
	paths, err := NewPaths(t.TempDir())
	require.NoError(t, err)

	assert.DirExists(t, paths.LogDir)
	assert.DirExists(t, paths.ExportDir)
}

func TestNewPaths_EnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv(EnvHome, dir)

	paths, err := NewPaths("")
	require.NoError(t, err)
	assert.Equal(t, dir, paths.BaseDir)
	assert.DirExists(t, dir)
}
