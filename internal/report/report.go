package report

import (
	"sort"
	"strings"

	"routelens/internal/analyzer"
)

// AffectedRoute groups the changed files behind one impacted route by the
// kind of change.
type AffectedRoute struct {
	Route            string   `json:"route"`
	DirectChanges    []string `json:"directChanges"`
	ComponentChanges []string `json:"componentChanges"`
	StyleChanges     []string `json:"styleChanges"`
	SharedComponents []string `json:"sharedComponents"`
}

// Report is the impact summary handed to presentation and scheduling.
type Report struct {
	AffectedRoutes      []AffectedRoute     `json:"affectedRoutes"`
	SharedComponents    map[string][]string `json:"sharedComponents"`
	TotalFilesChanged   int                 `json:"totalFilesChanged"`
	TotalRoutesAffected int                 `json:"totalRoutesAffected"`
}

var styleExtensions = []string{".css", ".scss", ".sass", ".less", ".styl"}

func isStyleFile(file string) bool {
	for _, ext := range styleExtensions {
		if strings.HasSuffix(file, ext) {
			return true
		}
	}
	return false
}

// Build folds a per-changed-file impact map into a per-route report. A
// changed file that reaches more than one route is recorded as a shared
// component on each of them.
func Build(impacts map[string][]analyzer.RouteImpact) *Report {
	type routeAgg struct {
		direct     map[string]struct{}
		components map[string]struct{}
		styles     map[string]struct{}
		shared     map[string]struct{}
	}
	aggs := make(map[string]*routeAgg)
	agg := func(route string) *routeAgg {
		if a, ok := aggs[route]; ok {
			return a
		}
		a := &routeAgg{
			direct:     make(map[string]struct{}),
			components: make(map[string]struct{}),
			styles:     make(map[string]struct{}),
			shared:     make(map[string]struct{}),
		}
		aggs[route] = a
		return a
	}

	shared := make(map[string][]string)

	for file, fileImpacts := range impacts {
		routeSet := make(map[string]struct{})
		direct := make(map[string]struct{})
		for _, impact := range fileImpacts {
			for _, route := range impact.Routes {
				routeSet[route] = struct{}{}
				if impact.RouteFile == file {
					direct[route] = struct{}{}
				}
			}
		}

		routes := make([]string, 0, len(routeSet))
		for route := range routeSet {
			routes = append(routes, route)
		}
		sort.Strings(routes)

		isShared := len(routes) > 1
		if isShared {
			shared[file] = routes
		}

		for _, route := range routes {
			a := agg(route)
			_, isDirect := direct[route]
			switch {
			case isStyleFile(file):
				a.styles[file] = struct{}{}
			case isDirect:
				a.direct[file] = struct{}{}
			default:
				a.components[file] = struct{}{}
			}
			if isShared {
				a.shared[file] = struct{}{}
			}
		}
	}

	report := &Report{
		SharedComponents:  shared,
		TotalFilesChanged: len(impacts),
	}

	routes := make([]string, 0, len(aggs))
	for route := range aggs {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	for _, route := range routes {
		a := aggs[route]
		report.AffectedRoutes = append(report.AffectedRoutes, AffectedRoute{
			Route:            route,
			DirectChanges:    sortedKeys(a.direct),
			ComponentChanges: sortedKeys(a.components),
			StyleChanges:     sortedKeys(a.styles),
			SharedComponents: sortedKeys(a.shared),
		})
	}
	report.TotalRoutesAffected = len(report.AffectedRoutes)

	return report
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
