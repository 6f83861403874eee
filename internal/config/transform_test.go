package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTransform(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transforms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTransform_Valid(t *testing.T) {
	cfg, err := LoadTransform(writeTransform(t, "tensor: true\nresize: 32\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Tensor)
	assert.Equal(t, 32, cfg.Resize)
}

func TestLoadTransform_TensorOnly(t *testing.T) {
	cfg, err := LoadTransform(writeTransform(t, "tensor: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Tensor)
	assert.Zero(t, cfg.Resize)
}

func TestLoadTransform_UnknownKey(t *testing.T) {
	cfg, err := LoadTransform(writeTransform(t, "tensor: true\nrotate: 90\n"))
	require.Error(t, err)
	assert.Nil(t, cfg)

	var violation *InvariantViolationError
	require.ErrorAs(t, err, &violation)
	assert.Contains(t, violation.Rule, "rotate")
}

func TestLoadTransform_InvalidResize(t *testing.T) {
	cfg, err := LoadTransform(writeTransform(t, "resize: -5\n"))
	require.Error(t, err)
	assert.Nil(t, cfg)

	var violation *InvariantViolationError
	require.ErrorAs(t, err, &violation)
	assert.Contains(t, violation.Rule, "resize")
}

func TestLoadTransform_TensorTypeMismatch(t *testing.T) {
	cfg, err := LoadTransform(writeTransform(t, "tensor: 1\n"))
	require.Error(t, err)
	assert.Nil(t, cfg)

	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "tensor", mismatch.Key)
}

func TestLoadTransform_FileNotFound(t *testing.T) {
	cfg, err := LoadTransform(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestParseTransform_InMemory(t *testing.T) {
	cfg, err := ParseTransform([]byte("resize: 28\n"))
	require.NoError(t, err)
	assert.Equal(t, 28, cfg.Resize)
	assert.False(t, cfg.Tensor)
}
