package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"routelens/internal/cache"
	"routelens/internal/extractor"
	"routelens/internal/graph"
	"routelens/internal/storage"
)

// SnapshotVersion guards the wire format. A stored snapshot with a
// different version is discarded and the project rescanned.
const SnapshotVersion = 1

const snapshotObject = "import-graph.json"

// PersistedNode is the wire form of one graph node.
type PersistedNode struct {
	File         string   `json:"file"`
	Imports      []string `json:"imports"`
	IsRouteFile  bool     `json:"isRouteFile,omitempty"`
	IsEntryPoint bool     `json:"isEntryPoint,omitempty"`
}

// PersistedGraph is the snapshot document written to the store.
type PersistedGraph struct {
	Version   int                     `json:"version"`
	Timestamp time.Time               `json:"timestamp"`
	Graph     []PersistedNode         `json:"graph"`
	FileCache []*extractor.FileRecord `json:"fileCache"`
}

const snapshotSchema = `{
	"type": "object",
	"required": ["version", "timestamp", "graph", "fileCache"],
	"properties": {
		"version": {"type": "integer"},
		"timestamp": {"type": "string"},
		"graph": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["file", "imports"],
				"properties": {
					"file": {"type": "string"},
					"imports": {"type": "array", "items": {"type": "string"}},
					"isRouteFile": {"type": "boolean"},
					"isEntryPoint": {"type": "boolean"}
				}
			}
		},
		"fileCache": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["path"],
				"properties": {
					"path": {"type": "string"},
					"hash": {"type": "string"}
				}
			}
		}
	}
}`

var schema = jsonschema.MustCompileString("snapshot.json", snapshotSchema)

// ObjectPath returns the store key for a namespace's snapshot.
func ObjectPath(namespace string) string {
	namespace = strings.Trim(namespace, "/")
	if namespace == "" {
		namespace = "default"
	}
	return namespace + "/" + snapshotObject
}

// Save writes the current graph and file cache to the store. Failures are
// logged, not propagated: a broken store never fails an analysis run.
func Save(ctx context.Context, store storage.Store, namespace string, g *graph.Graph, fc *cache.FileCache) {
	if store == nil {
		return
	}

	doc := PersistedGraph{
		Version:   SnapshotVersion,
		Timestamp: time.Now().UTC(),
		Graph:     flattenGraph(g),
		FileCache: fc.Records(),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		log.Printf("Warning: failed to encode snapshot: %v", err)
		return
	}

	if err := store.Upload(ctx, ObjectPath(namespace), data, "application/json"); err != nil {
		log.Printf("Warning: failed to persist snapshot: %v", err)
	}
}

// Load restores a snapshot from the store. The bool reports whether a
// usable snapshot was found; any failure (missing, corrupt, schema
// violation, version mismatch) just means "start from a full scan".
func Load(ctx context.Context, store storage.Store, namespace string) (*graph.Graph, *cache.FileCache, bool) {
	if store == nil {
		return nil, nil, false
	}

	data, err := store.Download(ctx, ObjectPath(namespace))
	if err != nil {
		log.Printf("Warning: failed to read snapshot: %v", err)
		return nil, nil, false
	}
	if data == nil {
		return nil, nil, false
	}

	if err := validate(data); err != nil {
		log.Printf("Warning: discarding invalid snapshot: %v", err)
		return nil, nil, false
	}

	var doc PersistedGraph
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Warning: discarding unreadable snapshot: %v", err)
		return nil, nil, false
	}
	if doc.Version != SnapshotVersion {
		log.Printf("Warning: snapshot version %d does not match %d, rescanning", doc.Version, SnapshotVersion)
		return nil, nil, false
	}

	g := graph.NewGraph()
	for _, node := range doc.Graph {
		n := g.Ensure(node.File)
		n.IsRouteFile = node.IsRouteFile
		n.IsEntryPoint = node.IsEntryPoint
		for _, target := range node.Imports {
			g.AddEdge(node.File, target)
		}
	}

	fc := cache.New()
	for _, record := range doc.FileCache {
		fc.Put(record)
	}

	return g, fc, true
}

func validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	return schema.Validate(doc)
}

func flattenGraph(g *graph.Graph) []PersistedNode {
	nodes := make([]PersistedNode, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		imports := make([]string, 0, len(node.Imports))
		for target := range node.Imports {
			imports = append(imports, target)
		}
		sort.Strings(imports)
		nodes = append(nodes, PersistedNode{
			File:         node.File,
			Imports:      imports,
			IsRouteFile:  node.IsRouteFile,
			IsEntryPoint: node.IsEntryPoint,
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].File < nodes[j].File })
	return nodes
}
