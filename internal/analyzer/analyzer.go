package analyzer

import (
	"context"
	"fmt"
	"log"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"routelens/internal/cache"
	"routelens/internal/crawler"
	"routelens/internal/extractor"
	"routelens/internal/framework"
	"routelens/internal/graph"
	"routelens/internal/persist"
	"routelens/internal/resolver"
	"routelens/internal/storage"
)

// Analyzer owns the import graph and file cache for one project and
// answers route-impact queries. A single instance serves one analysis
// run at a time; it is not shared across concurrent runs.
type Analyzer struct {
	root        string
	namespace   string
	store       storage.Store
	maxFileSize int64

	fw        framework.Framework
	res       *resolver.Resolver
	extractor *extractor.Extractor

	graph     *graph.Graph
	fileCache *cache.FileCache

	initialized bool
}

// Options configures a new Analyzer. Framework overrides auto-detection
// when non-empty; Store may be nil to disable cross-run persistence.
type Options struct {
	Root        string
	Framework   string
	Aliases     map[string]string
	Extensions  []string
	MaxFileSize int64
	Namespace   string
	Store       storage.Store
}

func New(opts Options) *Analyzer {
	return &Analyzer{
		root:        opts.Root,
		namespace:   opts.Namespace,
		store:       opts.Store,
		maxFileSize: opts.MaxFileSize,
		fw:          framework.Framework(opts.Framework),
		res:         resolver.New(opts.Root, opts.Aliases).WithExtensions(opts.Extensions),
		graph:       graph.NewGraph(),
		fileCache:   cache.New(),
	}
}

// Initialize detects the framework, then either restores a persisted
// snapshot or performs a full project scan. Returns whether a snapshot
// was reused.
func (a *Analyzer) Initialize(ctx context.Context) (bool, error) {
	if a.fw == "" {
		a.fw = framework.Detect(a.root)
	}
	a.extractor = extractor.New(a.root, a.fw, a.res).WithMaxFileSize(a.maxFileSize)

	if g, fc, loaded := persist.Load(ctx, a.store, a.namespace); loaded {
		a.graph = g
		a.fileCache = fc
		a.initialized = true
		return true, nil
	}

	if err := a.fullScan(ctx); err != nil {
		return false, fmt.Errorf("full scan failed: %w", err)
	}
	persist.Save(ctx, a.store, a.namespace, a.graph, a.fileCache)
	a.initialized = true
	return false, nil
}

// Framework returns the framework the analyzer operates under.
func (a *Analyzer) Framework() framework.Framework {
	return a.fw
}

// fullScan crawls the project and extracts every source file. Parsing is
// fanned out across workers; graph mutation happens under one mutex since
// records are independent but edges touch shared nodes.
func (a *Analyzer) fullScan(ctx context.Context) error {
	var files []string
	c := crawler.NewCrawler(a.root)
	if err := c.ScanProject(func(relPath string) {
		files = append(files, relPath)
	}); err != nil {
		return err
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())

	for _, file := range files {
		file := file
		eg.Go(func() error {
			record := a.extractor.ExtractFile(egCtx, file)
			mu.Lock()
			defer mu.Unlock()
			a.applyRecord(record)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	a.graph.MarkEntryPoints()
	return nil
}

// applyRecord installs a freshly extracted record: cache entry, outgoing
// edges, and the route-file flag. Caller holds any needed lock.
func (a *Analyzer) applyRecord(record *extractor.FileRecord) {
	a.fileCache.Put(record)
	a.graph.Ensure(record.Path)
	for _, imp := range record.Imports {
		if imp.Resolved != "" {
			a.graph.AddEdge(record.Path, imp.Resolved)
		}
	}
	a.graph.MarkRouteFile(record.Path, record.IsRouteDefiner())
	// A route-array file is the routing root for everything under it.
	if a.fw == framework.ReactRouterArray && record.IsRouteDefiner() {
		a.graph.MarkEntryPoint(record.Path)
	}
}

// updateGraphForFiles reparses each changed file: stale outgoing edges are
// removed first so importedBy sets never hold dead entries.
func (a *Analyzer) updateGraphForFiles(ctx context.Context, changedFiles []string) {
	for _, file := range changedFiles {
		a.graph.RemoveFileEdges(file)
		record := a.extractor.ExtractFile(ctx, file)
		a.applyRecord(record)
	}
}

// RouteImpact pairs a reached route file with the routes it defines.
type RouteImpact struct {
	RouteFile string   `json:"routeFile"`
	Routes    []string `json:"routes"`
}

// DetectRoutes updates the graph for the changed files and walks importedBy
// edges upward from each, collecting every reached route file and its
// routes. Every changed file gets an entry; a file whose change reaches no
// route file maps to an empty list, which distinguishes "affects nothing"
// from "was not analyzed".
func (a *Analyzer) DetectRoutes(ctx context.Context, changedFiles []string) map[string][]RouteImpact {
	result := make(map[string][]RouteImpact)
	if !a.initialized || len(changedFiles) == 0 {
		return result
	}

	a.updateGraphForFiles(ctx, changedFiles)

	for _, file := range changedFiles {
		impacts := []RouteImpact{}
		for _, routeFile := range a.graph.ReachingRouteFiles(file) {
			impacts = append(impacts, RouteImpact{
				RouteFile: routeFile,
				Routes:    a.cachedRoutes(routeFile),
			})
		}
		result[file] = impacts
	}

	persist.Save(ctx, a.store, a.namespace, a.graph, a.fileCache)
	return result
}

func (a *Analyzer) cachedRoutes(routeFile string) []string {
	record := a.fileCache.Get(routeFile)
	if record == nil {
		return []string{}
	}
	return record.RoutePaths()
}

// RouteFileType classifies a changed file's role in the routing structure.
type RouteFileType string

const (
	TypeEntry     RouteFileType = "entry"
	TypePage      RouteFileType = "page"
	TypeLayout    RouteFileType = "layout"
	TypeTest      RouteFileType = "test"
	TypeComponent RouteFileType = "component"
)

// ImpactResult describes one changed file: whether it defines routes
// itself, its classification, and the routes it transitively affects.
type ImpactResult struct {
	IsRouteDefiner bool          `json:"isRouteDefiner"`
	RouteFileType  RouteFileType `json:"routeFileType"`
	Routes         []string      `json:"routes"`
}

// GetRouteInfo returns one ImpactResult per changed file.
func (a *Analyzer) GetRouteInfo(ctx context.Context, changedFiles []string) map[string]ImpactResult {
	result := make(map[string]ImpactResult)
	if !a.initialized || len(changedFiles) == 0 {
		return result
	}

	a.updateGraphForFiles(ctx, changedFiles)

	for _, file := range changedFiles {
		routes := []string{}
		for _, routeFile := range a.graph.ReachingRouteFiles(file) {
			routes = append(routes, a.cachedRoutes(routeFile)...)
		}
		node := a.graph.Ensure(file)
		result[file] = ImpactResult{
			IsRouteDefiner: node.IsRouteFile,
			RouteFileType:  a.classify(file, node),
			Routes:         FilterCompleteRoutes(routes),
		}
	}
	return result
}

func (a *Analyzer) classify(file string, node *graph.Node) RouteFileType {
	base := path.Base(file)
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return TypeTest
	}
	if node.IsEntryPoint {
		return TypeEntry
	}
	if node.IsRouteFile {
		return TypePage
	}
	name := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	if strings.Contains(name, "layout") || strings.HasPrefix(name, "_app") {
		return TypeLayout
	}
	return TypeComponent
}

// FindRoutesServingComponent walks upward from componentFile to its route
// files and returns the paths of route entries whose component reference
// resolves, through the route file's own imports, back to componentFile.
// Any failure yields an empty slice; nothing propagates.
func (a *Analyzer) FindRoutesServingComponent(ctx context.Context, componentFile string) []string {
	if !a.initialized || componentFile == "" {
		return []string{}
	}

	var routes []string
	for _, routeFile := range a.graph.ReachingRouteFiles(componentFile) {
		record := a.extractor.ExtractFile(ctx, routeFile)
		for _, entry := range record.Routes {
			if a.componentRefersTo(record, entry.Component, componentFile) {
				routes = append(routes, entry.Path)
			}
		}
	}
	return FilterCompleteRoutes(routes)
}

// componentRefersTo reports whether name, as used inside record's file,
// is an import binding resolving to componentFile. Member expressions
// like Pages.Home match through a namespace import of componentFile.
func (a *Analyzer) componentRefersTo(record *extractor.FileRecord, name, componentFile string) bool {
	if name == "" {
		return false
	}
	head := name
	if i := strings.IndexByte(name, '.'); i != -1 {
		head = name[:i]
	}
	for _, imp := range record.Imports {
		if imp.Resolved != componentFile {
			continue
		}
		if imp.Default == head || imp.Namespace == head {
			return true
		}
		for _, n := range imp.Names {
			if n == head {
				return true
			}
		}
	}
	return false
}

// FilterCompleteRoutes drops any route that reappears as the tail of a
// longer route in the same set ("child" goes when "parent/child" exists),
// then sorts ascending.
func FilterCompleteRoutes(routes []string) []string {
	seen := make(map[string]struct{}, len(routes))
	unique := make([]string, 0, len(routes))
	for _, r := range routes {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}

	out := make([]string, 0, len(unique))
	for _, r := range unique {
		partial := false
		for _, other := range unique {
			if other != r && strings.HasSuffix(other, "/"+r) {
				partial = true
				break
			}
		}
		if !partial {
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}

// Metrics summarizes the in-memory state without rescanning anything.
type Metrics struct {
	TotalFiles  int `json:"totalFiles"`
	RouteFiles  int `json:"routeFiles"`
	EntryPoints int `json:"entryPoints"`
	ImportEdges int `json:"importEdges"`
	CacheSize   int `json:"cacheSize"`
}

func (a *Analyzer) Metrics() Metrics {
	m := Metrics{
		TotalFiles: len(a.graph.Nodes),
		CacheSize:  a.fileCache.Len(),
	}
	for _, node := range a.graph.Nodes {
		if node.IsRouteFile {
			m.RouteFiles++
		}
		if node.IsEntryPoint {
			m.EntryPoints++
		}
		m.ImportEdges += len(node.Imports)
	}
	return m
}

// ClearCache empties every in-memory store and best-effort deletes the
// persisted snapshot. It never fails, whatever the store does.
func (a *Analyzer) ClearCache(ctx context.Context) {
	a.graph = graph.NewGraph()
	a.fileCache.Clear()
	a.initialized = false

	if a.store == nil {
		return
	}
	if err := a.store.Delete(ctx, persist.ObjectPath(a.namespace)); err != nil {
		log.Printf("Warning: failed to delete persisted snapshot: %v", err)
	}
}

// Routes lists every known route in the project, filtered and sorted.
func (a *Analyzer) Routes() []string {
	var routes []string
	for _, record := range a.fileCache.Records() {
		routes = append(routes, record.RoutePaths()...)
	}
	return FilterCompleteRoutes(routes)
}
