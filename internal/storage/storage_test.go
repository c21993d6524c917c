package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	local, err := NewLocalStore(filepath.Join(dir, "blobs"))
	require.NoError(t, err)

	sqlite, err := NewSQLiteStore(filepath.Join(dir, "blobs.db"))
	require.NoError(t, err)

	return map[string]Store{"local": local, "sqlite": sqlite}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			t.Run("download of missing object is nil, nil", func(t *testing.T) {
				data, err := store.Download(ctx, "ns/missing.json")
				require.NoError(t, err)
				assert.Nil(t, data)
			})

			t.Run("upload then download", func(t *testing.T) {
				require.NoError(t, store.Upload(ctx, "ns/graph.json", []byte(`{"v":1}`), "application/json"))
				data, err := store.Download(ctx, "ns/graph.json")
				require.NoError(t, err)
				assert.Equal(t, []byte(`{"v":1}`), data)
			})

			t.Run("upload overwrites", func(t *testing.T) {
				require.NoError(t, store.Upload(ctx, "ns/graph.json", []byte(`{"v":2}`), "application/json"))
				data, err := store.Download(ctx, "ns/graph.json")
				require.NoError(t, err)
				assert.Equal(t, []byte(`{"v":2}`), data)
			})

			t.Run("list by prefix", func(t *testing.T) {
				require.NoError(t, store.Upload(ctx, "other/blob.json", []byte(`{}`), "application/json"))
				paths, err := store.List(ctx, "ns/")
				require.NoError(t, err)
				assert.Equal(t, []string{"ns/graph.json"}, paths)
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				require.NoError(t, store.Delete(ctx, "ns/graph.json"))
				require.NoError(t, store.Delete(ctx, "ns/graph.json"))
				data, err := store.Download(ctx, "ns/graph.json")
				require.NoError(t, err)
				assert.Nil(t, data)
			})
		})
	}
}

func TestLocalStore_RejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	assert.Error(t, store.Upload(ctx, "../outside.json", []byte("x"), "text/plain"))
	_, err = store.Download(ctx, "/etc/passwd")
	assert.Error(t, err)
}
