package graph

import "sort"

// Node is a vertex in the import graph: one source file plus its routing
// role. Imports and ImportedBy are kept symmetric by every mutation.
type Node struct {
	File         string
	Imports      map[string]struct{}
	ImportedBy   map[string]struct{}
	IsRouteFile  bool
	IsEntryPoint bool
}

// Graph is the bidirectional import graph over project-relative file paths.
type Graph struct {
	Nodes map[string]*Node
}

func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// Ensure returns the node for file, creating it when absent.
func (g *Graph) Ensure(file string) *Node {
	if node, ok := g.Nodes[file]; ok {
		return node
	}
	node := &Node{
		File:       file,
		Imports:    make(map[string]struct{}),
		ImportedBy: make(map[string]struct{}),
	}
	g.Nodes[file] = node
	return node
}

// AddEdge records that from imports to, updating both directions.
func (g *Graph) AddEdge(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	g.Ensure(from).Imports[to] = struct{}{}
	g.Ensure(to).ImportedBy[from] = struct{}{}
}

// RemoveFileEdges drops all outgoing edges of file, clearing the matching
// ImportedBy entries on the targets. Used before re-adding edges on a
// reparse so stale reverse edges cannot survive.
func (g *Graph) RemoveFileEdges(file string) {
	node, ok := g.Nodes[file]
	if !ok {
		return
	}
	for target := range node.Imports {
		if targetNode, ok := g.Nodes[target]; ok {
			delete(targetNode.ImportedBy, file)
		}
	}
	node.Imports = make(map[string]struct{})
}

// RemoveFile deletes a node entirely, severing both edge directions.
func (g *Graph) RemoveFile(file string) {
	node, ok := g.Nodes[file]
	if !ok {
		return
	}
	for target := range node.Imports {
		if targetNode, ok := g.Nodes[target]; ok {
			delete(targetNode.ImportedBy, file)
		}
	}
	for source := range node.ImportedBy {
		if sourceNode, ok := g.Nodes[source]; ok {
			delete(sourceNode.Imports, file)
		}
	}
	delete(g.Nodes, file)
}

// MarkRouteFile flags (or unflags) a file as defining routes.
func (g *Graph) MarkRouteFile(file string, isRoute bool) {
	g.Ensure(file).IsRouteFile = isRoute
}

// MarkEntryPoint flags a file as a routing root.
func (g *Graph) MarkEntryPoint(file string) {
	g.Ensure(file).IsEntryPoint = true
}

// MarkEntryPoints flags every file without importers as an entry point.
// Route files are excluded unless already marked explicitly: a page nobody
// imports is still a page, not a routing root. Called once after a full scan.
func (g *Graph) MarkEntryPoints() {
	for _, node := range g.Nodes {
		if node.IsEntryPoint {
			continue
		}
		node.IsEntryPoint = len(node.ImportedBy) == 0 && !node.IsRouteFile
	}
}

// Importers returns the files importing file, sorted for determinism.
func (g *Graph) Importers(file string) []string {
	node, ok := g.Nodes[file]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(node.ImportedBy))
	for source := range node.ImportedBy {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}

// ReachingRouteFiles walks ImportedBy edges upward from file with a
// visited set (cycle safe) and returns every reached route file, sorted.
// A file that is itself a route file is included.
func (g *Graph) ReachingRouteFiles(file string) []string {
	var routeFiles []string
	visited := map[string]struct{}{file: {}}
	queue := []string{file}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, ok := g.Nodes[current]
		if !ok {
			continue
		}
		if node.IsRouteFile {
			routeFiles = append(routeFiles, current)
		}
		for source := range node.ImportedBy {
			if _, seen := visited[source]; seen {
				continue
			}
			visited[source] = struct{}{}
			queue = append(queue, source)
		}
	}

	sort.Strings(routeFiles)
	return routeFiles
}
