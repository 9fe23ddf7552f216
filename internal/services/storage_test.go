package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageService_SpoolAndRelease(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	path, release, err := storage.Spool([]byte("payload"), ".pdf")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".pdf", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NotPanics(t, release)
}

func TestStorageService_SpoolMissingDir(t *testing.T) {
	storage := NewStorageService(filepath.Join(t.TempDir(), "missing"))

	path, release, err := storage.Spool([]byte("payload"), ".pdf")

	assert.Error(t, err)
	assert.Empty(t, path)
	assert.Nil(t, release)
}

func TestStorageService_EnsureUploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	storage := NewStorageService(dir)

	require.NoError(t, storage.EnsureUploadDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
