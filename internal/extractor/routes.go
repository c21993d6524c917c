package extractor

import (
	"path"
	"regexp"
	"strings"

	"routelens/internal/framework"
)

var dynamicSegment = regexp.MustCompile(`\[(?:\.\.\.)?([^\]]+)\]`)

// extractPathRoutes applies the file-path routing conventions: Next.js App
// Router page files, Next.js Pages Router files, and SvelteKit +page files.
func extractPathRoutes(fw framework.Framework, relPath string, record *FileRecord) []RouteEntry {
	switch fw {
	case framework.NextJSApp:
		return appRouterRoutes(relPath)
	case framework.NextJSPages:
		return pagesRouterRoutes(relPath)
	case framework.SvelteKit:
		return svelteKitRoutes(relPath)
	default:
		return nil
	}
}

// appRouterRoutes maps app/blog/[slug]/page.tsx to "/blog/:slug".
func appRouterRoutes(relPath string) []RouteEntry {
	base := path.Base(relPath)
	if !isPageFile(base, "page") {
		return nil
	}
	dir, ok := stripRoutingPrefix(path.Dir(relPath), "app")
	if !ok {
		return nil
	}
	return []RouteEntry{{
		Path:      normalizeSegments(dir),
		Component: componentNameFor(dir),
		File:      relPath,
		Line:      1,
	}}
}

// pagesRouterRoutes maps pages/blog/[slug].tsx to "/blog/:slug" and
// pages/index.tsx to "/".
func pagesRouterRoutes(relPath string) []RouteEntry {
	base := path.Base(relPath)
	name := strings.TrimSuffix(base, path.Ext(base))
	if strings.HasPrefix(name, "_") {
		return nil // _app, _document, _error
	}
	dir, ok := stripRoutingPrefix(path.Dir(relPath), "pages")
	if !ok {
		return nil
	}
	if dir == "api" || strings.HasPrefix(dir, "api/") {
		return nil
	}
	route := dir
	if name != "index" {
		route = path.Join(dir, name)
	}
	return []RouteEntry{{
		Path:      normalizeSegments(route),
		Component: componentNameFor(route),
		File:      relPath,
		Line:      1,
	}}
}

// svelteKitRoutes maps src/routes/about/+page.svelte to "/about".
func svelteKitRoutes(relPath string) []RouteEntry {
	base := path.Base(relPath)
	if base != "+page.svelte" && !isPageFile(base, "+page") {
		return nil
	}
	dir, ok := stripRoutingPrefix(path.Dir(relPath), "routes")
	if !ok {
		return nil
	}
	return []RouteEntry{{
		Path:      normalizeSegments(dir),
		Component: componentNameFor(dir),
		File:      relPath,
		Line:      1,
	}}
}

func isPageFile(base, stem string) bool {
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js", ".svelte"} {
		if base == stem+ext {
			return true
		}
	}
	return false
}

// stripRoutingPrefix removes everything up to and including the routing
// directory (app/, pages/, routes/) from dir. Returns false when the file
// does not live under that directory at all.
func stripRoutingPrefix(dir, marker string) (string, bool) {
	segments := strings.Split(dir, "/")
	for i, seg := range segments {
		if seg == marker {
			return strings.Join(segments[i+1:], "/"), true
		}
	}
	return "", false
}

// normalizeSegments rewrites [slug] to :slug, drops (group) segments, and
// produces a "/"-prefixed route string.
func normalizeSegments(dir string) string {
	if dir == "" || dir == "." {
		return "/"
	}
	var out []string
	for _, seg := range strings.Split(dir, "/") {
		if seg == "" || (strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")")) {
			continue
		}
		out = append(out, dynamicSegment.ReplaceAllString(seg, ":$1"))
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

// componentNameFor derives a display name from the last static path segment.
func componentNameFor(dir string) string {
	segments := strings.Split(dir, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || seg == "." || strings.HasPrefix(seg, "[") || strings.HasPrefix(seg, "(") {
			continue
		}
		return strings.ToUpper(seg[:1]) + seg[1:]
	}
	return "Index"
}
