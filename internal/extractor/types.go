package extractor

import (
	"bytes"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// MaxFileSize is the largest file the extractor will parse. Anything bigger
// is treated like an unparsable file: empty record, no error.
const MaxFileSize = 1 << 20

// ImportRef is one import statement as written in a source file, together
// with its resolution. Resolved is a project-relative path, or "" when the
// specifier names an external package (or a file that does not exist).
type ImportRef struct {
	Raw       string   `json:"raw"`
	Resolved  string   `json:"resolved,omitempty"`
	Default   string   `json:"default,omitempty"`   // local name of the default import
	Names     []string `json:"names,omitempty"`     // local names of named imports
	Namespace string   `json:"namespace,omitempty"` // local name of a namespace import
}

// RouteEntry is one application URL route extracted from a file. Path is
// normalized: segments joined with "/", dynamic segments as ":name", index
// routes carrying the "(index)" sentinel.
type RouteEntry struct {
	Path      string `json:"path"`
	Component string `json:"component,omitempty"`
	File      string `json:"file"`
	Line      int    `json:"line"`
}

// FileRecord is the cached per-file analysis result. A record with empty
// Imports/Exports/Routes represents a file that is missing, binary,
// oversized, or failed to parse.
type FileRecord struct {
	Path         string       `json:"path"`
	Imports      []ImportRef  `json:"imports"`
	Exports      []string     `json:"exports"`
	Routes       []RouteEntry `json:"routes"`
	Hash         string       `json:"hash"`
	LastModified time.Time    `json:"lastModified"`
}

// RoutePaths returns just the route strings of the record.
func (r *FileRecord) RoutePaths() []string {
	paths := make([]string, 0, len(r.Routes))
	for _, rt := range r.Routes {
		paths = append(paths, rt.Path)
	}
	return paths
}

// IsRouteDefiner reports whether the file defines at least one route.
func (r *FileRecord) IsRouteDefiner() bool {
	return len(r.Routes) > 0
}

// EmptyRecord builds the record used for missing, binary, oversized, or
// unparsable files.
func EmptyRecord(path string) *FileRecord {
	return &FileRecord{
		Path:    path,
		Imports: []ImportRef{},
		Exports: []string{},
		Routes:  []RouteEntry{},
	}
}

// Fingerprint hashes file content for change detection.
func Fingerprint(content []byte) string {
	return strconv.FormatUint(xxhash.Sum64(content), 16)
}

// looksBinary applies the null-byte heuristic to the first KiB of content.
func looksBinary(content []byte) bool {
	probe := content
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return bytes.IndexByte(probe, 0) != -1
}
