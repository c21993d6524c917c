package cache

import (
	"sort"
	"sync"

	"routelens/internal/extractor"
)

// FileCache holds per-file extraction results keyed by project-relative
// path. Safe for concurrent use during parallel scans.
type FileCache struct {
	mu      sync.RWMutex
	records map[string]*extractor.FileRecord
}

func New() *FileCache {
	return &FileCache{records: make(map[string]*extractor.FileRecord)}
}

// Get returns the cached record for path, or nil.
func (c *FileCache) Get(path string) *extractor.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records[path]
}

// Fresh reports whether the cached record for path matches hash.
func (c *FileCache) Fresh(path, hash string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[path]
	return ok && record.Hash == hash && hash != ""
}

func (c *FileCache) Put(record *extractor.FileRecord) {
	if record == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.Path] = record
}

func (c *FileCache) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, path)
}

func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *FileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[string]*extractor.FileRecord)
}

// Paths returns the cached file paths, sorted.
func (c *FileCache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.records))
	for path := range c.records {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Records returns a snapshot of every cached record, sorted by path.
func (c *FileCache) Records() []*extractor.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records := make([]*extractor.FileRecord, 0, len(c.records))
	for _, record := range c.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records
}
