package framework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root, content string, dirs ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(content), 0o644))
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
}

func TestDetect(t *testing.T) {
	t.Run("next with app dir", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, `{"dependencies": {"next": "14.0.0"}}`, "app")
		assert.Equal(t, NextJSApp, Detect(root))
	})

	t.Run("next with src/app dir", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, `{"dependencies": {"next": "14.0.0"}}`, "src/app")
		assert.Equal(t, NextJSApp, Detect(root))
	})

	t.Run("next without app dir is pages router", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, `{"dependencies": {"next": "13.0.0"}}`)
		assert.Equal(t, NextJSPages, Detect(root))
	})

	t.Run("sveltekit", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, `{"devDependencies": {"@sveltejs/kit": "2.0.0"}}`)
		assert.Equal(t, SvelteKit, Detect(root))
	})

	t.Run("react router", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, `{"dependencies": {"react": "18.0.0", "react-router-dom": "6.0.0"}}`)
		assert.Equal(t, ReactRouterArray, Detect(root))
	})

	t.Run("missing manifest degrades to unknown", func(t *testing.T) {
		assert.Equal(t, Unknown, Detect(t.TempDir()))
	})

	t.Run("unreadable manifest degrades to unknown", func(t *testing.T) {
		root := t.TempDir()
		writeManifest(t, root, `{not json`)
		assert.Equal(t, Unknown, Detect(root))
	})
}
