package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	routeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)

// Render formats the report as an indented tree. An empty report renders
// as a single "no routes affected" line.
func Render(r *Report) string {
	if r == nil || len(r.AffectedRoutes) == 0 {
		return "No routes affected.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Affected routes (%d), from %d changed file(s):\n",
		r.TotalRoutesAffected, r.TotalFilesChanged)

	for i, route := range r.AffectedRoutes {
		last := i == len(r.AffectedRoutes)-1
		b.WriteString(branch(last))
		b.WriteString(routeStyle.Render(route.Route))
		b.WriteByte('\n')
		renderGroups(&b, route, childIndent(last))
	}

	if len(r.SharedComponents) > 0 {
		b.WriteByte('\n')
		b.WriteString(warningStyle.Render("⚠ Shared components affect multiple routes:"))
		b.WriteByte('\n')
		files := make([]string, 0, len(r.SharedComponents))
		for file := range r.SharedComponents {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			fmt.Fprintf(&b, "  %s → %s\n", file, strings.Join(r.SharedComponents[file], ", "))
		}
	}

	return b.String()
}

type group struct {
	label string
	files []string
}

func renderGroups(b *strings.Builder, route AffectedRoute, indent string) {
	groups := []group{
		{"direct", route.DirectChanges},
		{"component", route.ComponentChanges},
		{"style", route.StyleChanges},
	}

	var present []group
	for _, g := range groups {
		if len(g.files) > 0 {
			present = append(present, g)
		}
	}

	for i, g := range present {
		last := i == len(present)-1
		for j, file := range g.files {
			lastFile := last && j == len(g.files)-1
			b.WriteString(indent)
			b.WriteString(branch(lastFile))
			b.WriteString(labelStyle.Render(g.label + ": "))
			b.WriteString(file)
			b.WriteByte('\n')
		}
	}
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func childIndent(last bool) string {
	if last {
		return "    "
	}
	return "│   "
}
