package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bluekite-labs/shopdesk-service/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	storage, err := NewLocalStorage(&config.StorageConfig{Path: t.TempDir()}, logger)
	require.NoError(t, err)
	return storage
}

func TestLocalStorageWriteAndDelete(t *testing.T) {
	t.Parallel()

	storage := newTestLocalStorage(t)
	ctx := context.Background()
	key := "product_qr_codes/product_test_qr.png"
	data := []byte("png-bytes")

	url, err := storage.Write(ctx, key, data)
	require.NoError(t, err)
	assert.Equal(t, "/"+key, url)

	written, err := os.ReadFile(filepath.Join(storage.root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, data, written)

	require.NoError(t, storage.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(storage.root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteMissing(t *testing.T) {
	t.Parallel()

	storage := newTestLocalStorage(t)

	// Borrar un blob inexistente no es error
	assert.NoError(t, storage.Delete(context.Background(), "does/not/exist.png"))
}

func TestLocalStorageOverwrite(t *testing.T) {
	t.Parallel()

	storage := newTestLocalStorage(t)
	ctx := context.Background()
	key := "a/b.png"

	_, err := storage.Write(ctx, key, []byte("old"))
	require.NoError(t, err)
	_, err = storage.Write(ctx, key, []byte("new"))
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(storage.root, "a", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), written)
}

func TestNewObjectStorageSelectsLocal(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	storage, err := NewObjectStorage(&config.StorageConfig{Type: "local", Path: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, storage)
}
