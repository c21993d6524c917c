package framework

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Framework is the routing convention detected for a project. It is picked
// once during analyzer initialization and selects the route-extraction
// strategy for every file in the scan.
type Framework string

const (
	NextJSApp        Framework = "nextjs-app"
	NextJSPages      Framework = "nextjs-pages"
	ReactRouterArray Framework = "react-router"
	SvelteKit        Framework = "sveltekit"
	Unknown          Framework = "unknown"
)

type manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (m *manifest) has(name string) bool {
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

// Detect inspects the project manifest (package.json) at root and classifies
// the routing framework. A missing or unreadable manifest degrades to
// Unknown rather than failing the run.
func Detect(root string) Framework {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return Unknown
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Unknown
	}

	switch {
	case m.has("next"):
		if hasAppDir(root) {
			return NextJSApp
		}
		return NextJSPages
	case m.has("@sveltejs/kit"):
		return SvelteKit
	case m.has("react-router-dom") || m.has("react-router"):
		return ReactRouterArray
	default:
		return Unknown
	}
}

func hasAppDir(root string) bool {
	for _, dir := range []string{"app", filepath.Join("src", "app")} {
		if info, err := os.Stat(filepath.Join(root, dir)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
