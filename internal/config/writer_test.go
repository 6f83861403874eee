package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_RoundTrip(t *testing.T) {
	original, err := Load(writeConfig(t, sectionedConfig))
	require.NoError(t, err)

	data, err := Marshal(original)
	require.NoError(t, err)

	reloaded, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, original, reloaded)
}

func TestMarshal_FlatNormalizesToSectioned(t *testing.T) {
	original, err := Load(writeConfig(t, flatConfig))
	require.NoError(t, err)

	data, err := Marshal(original)
	require.NoError(t, err)

	// The rendered document must be in the sectioned layout.
	assert.Contains(t, string(data), "model:")
	assert.Contains(t, string(data), "optimizer:")
	assert.Contains(t, string(data), "learning_rate:")

	reloaded, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, original, reloaded)
}

func TestWriteFile_Atomic(t *testing.T) {
	cfg, err := Load(writeConfig(t, flatConfig))
	require.NoError(t, err)

	dir := t.TempDir()
	target := filepath.Join(dir, "out.yaml")
	require.NoError(t, WriteFile(target, cfg))

	reloaded, err := Load(target)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)

	// No temp file debris left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.yaml", entries[0].Name())
}

func TestWriteFile_OverwritesExisting(t *testing.T) {
	cfg, err := Load(writeConfig(t, flatConfig))
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, os.WriteFile(target, []byte("stale: content\n"), 0644))

	require.NoError(t, WriteFile(target, cfg))

	reloaded, err := Load(target)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestWriteFile_BadDirectory(t *testing.T) {
	cfg, err := Load(writeConfig(t, flatConfig))
	require.NoError(t, err)

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "out.yaml"), cfg)
	assert.Error(t, err)
}
