package ast

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect identifies the grammar used to parse a source file.
type Dialect string

const (
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
	DialectJavaScript Dialect = "javascript"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// DialectFor picks the grammar for a file path. Svelte components carry
// their logic in a <script> block, which is parsed as TypeScript.
func DialectFor(path string) (Dialect, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return DialectTypeScript, nil
	case ".tsx":
		return DialectTSX, nil
	case ".js", ".mjs", ".cjs", ".jsx":
		return DialectJavaScript, nil
	case ".svelte":
		return DialectTypeScript, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
}

func (d Dialect) language() *sitter.Language {
	switch d {
	case DialectTSX:
		return tsx.GetLanguage()
	case DialectJavaScript:
		return javascript.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}

// Provider produces syntax trees for JS/TS-family source text.
// A new tree-sitter parser is created per call, so a single Provider is
// safe for concurrent use.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

// Parse builds a syntax tree for content using the grammar implied by path.
// Callers own the returned tree and must Close it.
func (p *Provider) Parse(ctx context.Context, content []byte, path string) (*sitter.Tree, error) {
	dialect, err := DialectFor(path)
	if err != nil {
		return nil, err
	}
	return p.ParseDialect(ctx, content, dialect)
}

// ParseDialect parses content with an explicit dialect.
func (p *Provider) ParseDialect(ctx context.Context, content []byte, dialect Dialect) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(dialect.language())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	return tree, nil
}

// ScriptBlock returns the contents of the first <script> element in a
// Svelte component, or nil when the component has no script block.
// A full HTML grammar is overkill for this: the markers are literal.
func ScriptBlock(content []byte) []byte {
	src := string(content)
	open := strings.Index(src, "<script")
	if open == -1 {
		return nil
	}
	bodyStart := strings.Index(src[open:], ">")
	if bodyStart == -1 {
		return nil
	}
	bodyStart += open + 1
	end := strings.Index(src[bodyStart:], "</script>")
	if end == -1 {
		return nil
	}
	return []byte(src[bodyStart : bodyStart+end])
}
