package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routelens.yaml")
	yaml := `
project:
  root: ./web
  framework: react-router
resolver:
  aliases:
    "@/": "src/"
cache:
  namespace: web-app
storage:
  backend: sqlite
  path: web.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./web", cfg.Project.Root)
	assert.Equal(t, "react-router", cfg.Project.Framework)
	assert.Equal(t, map[string]string{"@/": "src/"}, cfg.Resolver.Aliases)
	assert.Equal(t, "web-app", cfg.Cache.Namespace)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "web.db", cfg.Storage.Path)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routelens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project:\n  root: ./web\n"), 0o644))

	t.Setenv("ROUTELENS_ROOT", "/srv/app")
	t.Setenv("ROUTELENS_NAMESPACE", "ci")
	t.Setenv("ROUTELENS_MAX_FILE_SIZE", "2048")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/app", cfg.Project.Root)
	assert.Equal(t, "ci", cfg.Cache.Namespace)
	assert.Equal(t, int64(2048), cfg.Cache.MaxFileSize)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, "default", cfg.Cache.Namespace)
	assert.Equal(t, "local", cfg.Storage.Backend)
}
