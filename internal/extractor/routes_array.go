package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractArrayRoutes finds declarative route configurations: object
// literals carrying a "path" key (optionally with a nested "children"
// array) anywhere in the file. Each discovered top-level route object is
// flattened into its leaf route strings.
func extractArrayRoutes(root *sitter.Node, content []byte, file string) []RouteEntry {
	var entries []RouteEntry

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node.Type() == "object" && isRouteObject(node, content) {
			entries = append(entries, flattenRouteObject(node, content, file, "")...)
			return // children handled by the flatten recursion
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)

	return entries
}

// isRouteObject reports whether an object literal looks like a route
// definition: a string-valued "path" pair, or an "index: true" pair.
func isRouteObject(node *sitter.Node, content []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "pair" {
			continue
		}
		key, value := pairParts(child, content)
		switch key {
		case "path":
			if value != nil && value.Type() == "string" {
				return true
			}
		case "index":
			if value != nil && nodeText(value, content) == "true" {
				return true
			}
		}
	}
	return false
}

type routeFields struct {
	path      string
	hasPath   bool
	index     bool
	children  *sitter.Node
	component string
	line      int
}

func readRouteFields(node *sitter.Node, content []byte) routeFields {
	fields := routeFields{line: int(node.StartPoint().Row) + 1}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "pair" {
			continue
		}
		key, value := pairParts(child, content)
		if value == nil {
			continue
		}
		switch key {
		case "path":
			if value.Type() == "string" {
				fields.path = stringContent(value, content)
				fields.hasPath = true
			}
		case "index":
			fields.index = nodeText(value, content) == "true"
		case "children":
			if value.Type() == "array" {
				fields.children = value
			}
		case "element", "component", "Component":
			fields.component = componentReference(value, content)
		}
	}
	return fields
}

// flattenRouteObject concatenates nested paths with "/" and emits leaf
// entries. A child with index:true and no path contributes the literal
// "(index)" suffix. Recursion depth is bounded by the AST itself.
func flattenRouteObject(node *sitter.Node, content []byte, file, prefix string) []RouteEntry {
	fields := readRouteFields(node, content)

	full := prefix
	switch {
	case fields.index && !fields.hasPath:
		full = joinRoute(prefix, "(index)")
	case fields.hasPath:
		full = joinRoute(prefix, fields.path)
	}

	if fields.children == nil {
		if full == "" {
			return nil
		}
		return []RouteEntry{{Path: full, Component: fields.component, File: file, Line: fields.line}}
	}

	var entries []RouteEntry
	for i := 0; i < int(fields.children.ChildCount()); i++ {
		child := fields.children.Child(i)
		if child.Type() == "object" {
			entries = append(entries, flattenRouteObject(child, content, file, full)...)
		}
	}
	return entries
}

func joinRoute(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "/" + strings.TrimPrefix(segment, "/")
}

// componentReference extracts the component name a route renders, handling
// identifiers, <Jsx/> elements, member expressions, and createElement calls.
func componentReference(value *sitter.Node, content []byte) string {
	switch value.Type() {
	case "identifier", "member_expression":
		return nodeText(value, content)
	case "jsx_self_closing_element", "jsx_element":
		return jsxElementName(value, content)
	case "call_expression":
		for i := 0; i < int(value.ChildCount()); i++ {
			child := value.Child(i)
			if child.Type() == "arguments" {
				for j := 0; j < int(child.ChildCount()); j++ {
					if gc := child.Child(j); gc.Type() == "identifier" {
						return nodeText(gc, content)
					}
				}
			}
		}
	case "parenthesized_expression":
		for i := 0; i < int(value.ChildCount()); i++ {
			child := value.Child(i)
			if child.Type() != "(" && child.Type() != ")" {
				return componentReference(child, content)
			}
		}
	}
	return ""
}

func jsxElementName(node *sitter.Node, content []byte) string {
	var find func(n *sitter.Node) string
	find = func(n *sitter.Node) string {
		switch n.Type() {
		case "jsx_self_closing_element", "jsx_opening_element":
			if name := n.ChildByFieldName("name"); name != nil {
				return nodeText(name, content)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if name := find(n.Child(i)); name != "" {
				return name
			}
		}
		return ""
	}
	return find(node)
}

func pairParts(pair *sitter.Node, content []byte) (string, *sitter.Node) {
	keyNode := pair.ChildByFieldName("key")
	if keyNode == nil {
		return "", nil
	}
	key := nodeText(keyNode, content)
	if keyNode.Type() == "string" {
		key = stringContent(keyNode, content)
	}
	return key, pair.ChildByFieldName("value")
}
