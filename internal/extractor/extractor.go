package extractor

import (
	"context"
	"os"
	"path"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"routelens/internal/ast"
	"routelens/internal/framework"
	"routelens/internal/resolver"
)

// Extractor turns a source file into a FileRecord: its imports (raw and
// resolved), exported names, and any routes it defines under the detected
// framework.
type Extractor struct {
	provider *ast.Provider
	fw       framework.Framework
	res      *resolver.Resolver
	root     string
	maxSize  int64
}

// New creates an extractor for a project rooted at root. The resolver may
// be nil, in which case imports keep only their raw specifiers.
func New(root string, fw framework.Framework, res *resolver.Resolver) *Extractor {
	return &Extractor{
		provider: ast.NewProvider(),
		fw:       fw,
		res:      res,
		root:     root,
		maxSize:  MaxFileSize,
	}
}

// WithMaxFileSize overrides the parse size cutoff. Non-positive keeps the
// default.
func (e *Extractor) WithMaxFileSize(n int64) *Extractor {
	if n > 0 {
		e.maxSize = n
	}
	return e
}

// ExtractFile reads and analyzes one file identified by its project-relative
// path. Missing, oversized, binary, and unparsable files all yield an empty
// record; this function never returns an error for bad input files.
func (e *Extractor) ExtractFile(ctx context.Context, relPath string) *FileRecord {
	full := path.Join(e.root, relPath)

	info, err := os.Stat(full)
	if err != nil {
		return EmptyRecord(relPath)
	}
	if info.Size() > e.maxSize {
		return EmptyRecord(relPath)
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return EmptyRecord(relPath)
	}

	record := e.Extract(ctx, relPath, content)
	record.LastModified = info.ModTime()
	return record
}

// Extract analyzes in-memory content for the given project-relative path.
func (e *Extractor) Extract(ctx context.Context, relPath string, content []byte) *FileRecord {
	record := EmptyRecord(relPath)
	record.Hash = Fingerprint(content)
	record.LastModified = time.Now()

	if int64(len(content)) > e.maxSize || looksBinary(content) {
		return record
	}

	source := content
	if strings.HasSuffix(relPath, ".svelte") {
		// Only the script block of a Svelte component contains imports.
		source = ast.ScriptBlock(content)
	}

	if len(source) > 0 {
		tree, err := e.provider.Parse(ctx, source, scriptPathFor(relPath))
		if err == nil {
			defer tree.Close()
			e.collectImports(tree.RootNode(), source, record)
			e.collectExports(tree.RootNode(), source, record)
			if e.fw == framework.ReactRouterArray || e.fw == framework.Unknown {
				record.Routes = append(record.Routes, extractArrayRoutes(tree.RootNode(), source, relPath)...)
			}
		}
	}

	// File-path routing conventions apply even when the file has no
	// parsable script (an empty +page.svelte is still a route).
	record.Routes = append(record.Routes, extractPathRoutes(e.fw, relPath, record)...)

	return record
}

// scriptPathFor maps a .svelte path onto a .ts path so the provider picks
// the TypeScript grammar for the extracted script block.
func scriptPathFor(relPath string) string {
	if strings.HasSuffix(relPath, ".svelte") {
		return strings.TrimSuffix(relPath, ".svelte") + ".ts"
	}
	return relPath
}

// collectImports walks top-level statements for ES imports, re-exports with
// a source module, and CommonJS require calls.
func (e *Extractor) collectImports(root *sitter.Node, content []byte, record *FileRecord) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_statement":
			if ref := e.importStatement(child, content, record.Path); ref != nil {
				record.Imports = append(record.Imports, *ref)
			}
		case "export_statement":
			// export { Foo } from './bar' pulls in ./bar like an import.
			if source := exportSource(child, content); source != "" {
				record.Imports = append(record.Imports, e.newRef(record.Path, source))
			}
		case "lexical_declaration", "variable_declaration":
			for _, ref := range e.requireDeclarations(child, content, record.Path) {
				record.Imports = append(record.Imports, ref)
			}
		}
	}
}

func (e *Extractor) newRef(importingFile, raw string) ImportRef {
	ref := ImportRef{Raw: raw}
	if e.res != nil {
		ref.Resolved = e.res.Resolve(importingFile, raw)
	}
	return ref
}

func (e *Extractor) importStatement(node *sitter.Node, content []byte, importingFile string) *ImportRef {
	var ref ImportRef
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import_clause":
			importClause(child, content, &ref)
		case "string":
			ref.Raw = stringContent(child, content)
		}
	}
	if ref.Raw == "" {
		return nil
	}
	if e.res != nil {
		ref.Resolved = e.res.Resolve(importingFile, ref.Raw)
	}
	return &ref
}

func importClause(node *sitter.Node, content []byte, ref *ImportRef) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			ref.Default = nodeText(child, content)
		case "namespace_import":
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "identifier" {
					ref.Namespace = nodeText(gc, content)
				}
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() != "import_specifier" {
					continue
				}
				if name := importSpecifierLocalName(gc, content); name != "" {
					ref.Names = append(ref.Names, name)
				}
			}
		}
	}
}

// importSpecifierLocalName returns the binding a named import introduces:
// the alias for `{a as b}`, otherwise the imported name itself.
func importSpecifierLocalName(node *sitter.Node, content []byte) string {
	var name, alias string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			if name == "" {
				name = nodeText(child, content)
			} else {
				alias = nodeText(child, content)
			}
		}
	}
	if alias != "" {
		return alias
	}
	return name
}

func (e *Extractor) requireDeclarations(node *sitter.Node, content []byte, importingFile string) []ImportRef {
	var refs []ImportRef
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		var local, raw string
		for j := 0; j < int(child.ChildCount()); j++ {
			gc := child.Child(j)
			switch gc.Type() {
			case "identifier":
				local = nodeText(gc, content)
			case "call_expression":
				raw = requireTarget(gc, content)
			}
		}
		if raw == "" {
			continue
		}
		ref := e.newRef(importingFile, raw)
		ref.Default = local
		refs = append(refs, ref)
	}
	return refs
}

func requireTarget(node *sitter.Node, content []byte) string {
	var fn, arg string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			fn = nodeText(child, content)
		case "arguments":
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "string" {
					arg = stringContent(gc, content)
				}
			}
		}
	}
	if fn != "require" {
		return ""
	}
	return arg
}

// collectExports records the names a file exports, including "default".
func (e *Extractor) collectExports(root *sitter.Node, content []byte, record *FileRecord) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "export_statement" {
			continue
		}
		exportStatement(child, content, record)
	}
}

func exportStatement(node *sitter.Node, content []byte, record *FileRecord) {
	isDefault := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "default":
			isDefault = true
		case "function_declaration", "generator_function_declaration", "class_declaration",
			"abstract_class_declaration", "interface_declaration", "type_alias_declaration",
			"enum_declaration":
			if name := declaredName(child, content); name != "" {
				record.Exports = append(record.Exports, name)
			}
		case "lexical_declaration", "variable_declaration":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() != "variable_declarator" {
					continue
				}
				if nameNode := gc.ChildByFieldName("name"); nameNode != nil && nameNode.Type() == "identifier" {
					record.Exports = append(record.Exports, nodeText(nameNode, content))
				}
			}
		case "export_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() != "export_specifier" {
					continue
				}
				if name := exportSpecifierName(gc, content); name != "" {
					record.Exports = append(record.Exports, name)
				}
			}
		case "identifier", "arrow_function", "call_expression", "object":
			// export default <expression>
		}
	}
	if isDefault {
		record.Exports = append(record.Exports, "default")
	}
}

// exportSpecifierName returns the exported (outer) name: the alias for
// `{a as b}`, otherwise the name itself.
func exportSpecifierName(node *sitter.Node, content []byte) string {
	var name, alias string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			if name == "" {
				name = nodeText(child, content)
			} else {
				alias = nodeText(child, content)
			}
		}
	}
	if alias != "" {
		return alias
	}
	return name
}

func exportSource(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "string" {
			return stringContent(child, content)
		}
	}
	return ""
}

func declaredName(node *sitter.Node, content []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return nodeText(nameNode, content)
	}
	return ""
}

func nodeText(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

func stringContent(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "string_fragment" {
			return nodeText(child, content)
		}
	}
	return strings.Trim(nodeText(node, content), `"'`)
}
