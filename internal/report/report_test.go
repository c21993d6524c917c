package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routelens/internal/analyzer"
)

func TestBuild(t *testing.T) {
	impacts := map[string][]analyzer.RouteImpact{
		"app/home/page.tsx": {
			{RouteFile: "app/home/page.tsx", Routes: []string{"/home"}},
		},
		"components/Button.tsx": {
			{RouteFile: "app/home/page.tsx", Routes: []string{"/home"}},
			{RouteFile: "app/about/page.tsx", Routes: []string{"/about"}},
		},
		"styles/theme.css": {
			{RouteFile: "app/home/page.tsx", Routes: []string{"/home"}},
		},
		"orphan.ts": {},
	}

	r := Build(impacts)

	assert.Equal(t, 4, r.TotalFilesChanged)
	assert.Equal(t, 2, r.TotalRoutesAffected)
	require.Len(t, r.AffectedRoutes, 2)

	t.Run("routes sorted", func(t *testing.T) {
		assert.Equal(t, "/about", r.AffectedRoutes[0].Route)
		assert.Equal(t, "/home", r.AffectedRoutes[1].Route)
	})

	t.Run("changes grouped by kind", func(t *testing.T) {
		home := r.AffectedRoutes[1]
		assert.Equal(t, []string{"app/home/page.tsx"}, home.DirectChanges)
		assert.Equal(t, []string{"components/Button.tsx"}, home.ComponentChanges)
		assert.Equal(t, []string{"styles/theme.css"}, home.StyleChanges)
	})

	t.Run("multi-route file recorded as shared", func(t *testing.T) {
		assert.Equal(t, map[string][]string{
			"components/Button.tsx": {"/about", "/home"},
		}, r.SharedComponents)
		assert.Equal(t, []string{"components/Button.tsx"}, r.AffectedRoutes[0].SharedComponents)
	})
}

func TestRender(t *testing.T) {
	t.Run("zero routes", func(t *testing.T) {
		assert.Equal(t, "No routes affected.\n", Render(&Report{}))
		assert.Equal(t, "No routes affected.\n", Render(nil))
	})

	t.Run("tree layout distinguishes the last child", func(t *testing.T) {
		r := Build(map[string][]analyzer.RouteImpact{
			"app/home/page.tsx": {
				{RouteFile: "app/home/page.tsx", Routes: []string{"/home"}},
			},
			"components/Button.tsx": {
				{RouteFile: "app/home/page.tsx", Routes: []string{"/home"}},
				{RouteFile: "app/about/page.tsx", Routes: []string{"/about"}},
			},
		})
		out := Render(r)

		assert.Contains(t, out, "├── ")
		assert.Contains(t, out, "└── ")
		assert.Contains(t, out, "/home")
		assert.Contains(t, out, "/about")

		t.Run("last route uses the closing branch", func(t *testing.T) {
			lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
			var routeLines []string
			for _, line := range lines {
				if strings.Contains(line, "/home") || strings.Contains(line, "/about") {
					if strings.HasPrefix(line, "├── ") || strings.HasPrefix(line, "└── ") {
						routeLines = append(routeLines, line)
					}
				}
			}
			require.Len(t, routeLines, 2)
			assert.True(t, strings.HasPrefix(routeLines[0], "├── "))
			assert.True(t, strings.HasPrefix(routeLines[1], "└── "))
		})

		t.Run("shared component warning present", func(t *testing.T) {
			assert.Contains(t, out, "Shared components")
			assert.Contains(t, out, "components/Button.tsx")
		})
	})
}
