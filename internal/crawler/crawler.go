package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Crawler scans a project directory for route-relevant source files.
type Crawler struct {
	root       string
	ignored    []string
	extensions []string
}

// NewCrawler creates a crawler for the project rooted at root.
func NewCrawler(root string) *Crawler {
	return &Crawler{
		root:       root,
		ignored:    []string{".git", "node_modules", "dist", "build", ".next", ".svelte-kit", "coverage"},
		extensions: []string{".ts", ".tsx", ".js", ".jsx", ".svelte"},
	}
}

// ScanProject walks the root directory and streams project-relative paths
// of every source file through the callback, preventing large memory
// buildup on big projects.
func (c *Crawler) ScanProject(onFile func(relPath string)) error {
	return filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !c.accepts(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return nil
		}
		onFile(filepath.ToSlash(rel))
		return nil
	})
}

func (c *Crawler) accepts(name string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
