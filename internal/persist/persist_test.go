package persist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routelens/internal/cache"
	"routelens/internal/extractor"
	"routelens/internal/graph"
	"routelens/internal/storage"
)

func testStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPersist_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	g := graph.NewGraph()
	g.AddEdge("routes.tsx", "pages/Home.tsx")
	g.AddEdge("pages/Home.tsx", "components/Button.tsx")
	g.MarkRouteFile("routes.tsx", true)
	g.MarkEntryPoint("routes.tsx")

	fc := cache.New()
	record := extractor.EmptyRecord("routes.tsx")
	record.Hash = "abc123"
	record.Routes = []extractor.RouteEntry{{Path: "home", Component: "Home", File: "routes.tsx", Line: 3}}
	fc.Put(record)

	Save(ctx, store, "proj", g, fc)

	loaded, loadedCache, ok := Load(ctx, store, "proj")
	require.True(t, ok)

	assert.Len(t, loaded.Nodes, 3)
	assert.Contains(t, loaded.Nodes["routes.tsx"].Imports, "pages/Home.tsx")
	assert.Contains(t, loaded.Nodes["pages/Home.tsx"].ImportedBy, "routes.tsx")
	assert.True(t, loaded.Nodes["routes.tsx"].IsRouteFile)
	assert.True(t, loaded.Nodes["routes.tsx"].IsEntryPoint)

	got := loadedCache.Get("routes.tsx")
	require.NotNil(t, got)
	assert.Equal(t, "abc123", got.Hash)
	assert.Equal(t, []string{"home"}, got.RoutePaths())
}

func TestPersist_LoadFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing snapshot", func(t *testing.T) {
		_, _, ok := Load(ctx, testStore(t), "proj")
		assert.False(t, ok)
	})

	t.Run("corrupt JSON", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, store.Upload(ctx, ObjectPath("proj"), []byte("{not json"), "application/json"))
		_, _, ok := Load(ctx, store, "proj")
		assert.False(t, ok)
	})

	t.Run("schema violation", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, store.Upload(ctx, ObjectPath("proj"), []byte(`{"version":1}`), "application/json"))
		_, _, ok := Load(ctx, store, "proj")
		assert.False(t, ok)
	})

	t.Run("version mismatch", func(t *testing.T) {
		store := testStore(t)
		doc := `{"version":99,"timestamp":"2024-01-01T00:00:00Z","graph":[],"fileCache":[]}`
		require.NoError(t, store.Upload(ctx, ObjectPath("proj"), []byte(doc), "application/json"))
		_, _, ok := Load(ctx, store, "proj")
		assert.False(t, ok)
	})

	t.Run("nil store", func(t *testing.T) {
		_, _, ok := Load(ctx, nil, "proj")
		assert.False(t, ok)
	})
}

func TestObjectPath(t *testing.T) {
	assert.Equal(t, "proj/import-graph.json", ObjectPath("proj"))
	assert.Equal(t, "default/import-graph.json", ObjectPath(""))
	assert.Equal(t, "proj/import-graph.json", ObjectPath("/proj/"))
}
