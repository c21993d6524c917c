package resolver

import (
	"os"
	"path"
	"sort"
	"strings"
)

// Extensions probed when an import specifier omits one, in priority order.
var Extensions = []string{".tsx", ".ts", ".jsx", ".js"}

// Resolver maps raw import specifiers to project-relative file paths.
// All paths use forward slashes and are relative to the project root.
type Resolver struct {
	root    string
	aliases map[string]string
	exts    []string

	// exists is swappable so resolution stays a pure function of one
	// filesystem snapshot.
	exists func(rel string) bool
}

// New creates a resolver rooted at the project directory. The alias table
// maps specifier prefixes to root-relative directories, e.g. "@/" -> "src/".
func New(root string, aliases map[string]string) *Resolver {
	r := &Resolver{
		root:    root,
		aliases: aliases,
		exts:    Extensions,
	}
	r.exists = func(rel string) bool {
		info, err := os.Stat(path.Join(r.root, rel))
		return err == nil && !info.IsDir()
	}
	return r
}

// WithExtensions overrides the probed extension list. An empty list keeps
// the default.
func (r *Resolver) WithExtensions(exts []string) *Resolver {
	if len(exts) > 0 {
		r.exts = exts
	}
	return r
}

// WithExists overrides the file-existence probe. Used in tests.
func (r *Resolver) WithExists(fn func(rel string) bool) *Resolver {
	r.exists = fn
	return r
}

// Resolve turns a raw specifier imported from importingFile into a
// project-relative path, or "" for external packages and missing files.
// It never returns an error: absence resolves to "".
func (r *Resolver) Resolve(importingFile, raw string) string {
	if raw == "" {
		return ""
	}

	var base string
	switch {
	case strings.HasPrefix(raw, "."):
		base = path.Join(path.Dir(importingFile), raw)
	case strings.HasPrefix(raw, "/"):
		base = strings.TrimPrefix(raw, "/")
	default:
		expanded, ok := r.expandAlias(raw)
		if !ok {
			return "" // bare specifier: external package
		}
		base = expanded
	}

	base = path.Clean(base)
	if base == "." || strings.HasPrefix(base, "..") {
		return ""
	}

	// Probe order: exact, then each extension, then index files.
	if r.exists(base) {
		return base
	}
	for _, ext := range r.exts {
		if candidate := base + ext; r.exists(candidate) {
			return candidate
		}
	}
	for _, ext := range r.exts {
		if candidate := path.Join(base, "index"+ext); r.exists(candidate) {
			return candidate
		}
	}
	return ""
}

// Aliases returns the configured alias prefixes, longest first, so that a
// more specific alias always wins over a shorter one.
func (r *Resolver) orderedAliases() []string {
	keys := make([]string, 0, len(r.aliases))
	for k := range r.aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}

func (r *Resolver) expandAlias(raw string) (string, bool) {
	for _, prefix := range r.orderedAliases() {
		if strings.HasPrefix(raw, prefix) {
			return path.Join(r.aliases[prefix], strings.TrimPrefix(raw, prefix)), true
		}
	}
	return "", false
}
