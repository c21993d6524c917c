package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	cases := map[string]Dialect{
		"src/a.ts":        DialectTypeScript,
		"src/a.mts":       DialectTypeScript,
		"src/A.tsx":       DialectTSX,
		"src/a.js":        DialectJavaScript,
		"src/a.jsx":       DialectJavaScript,
		"src/a.cjs":       DialectJavaScript,
		"src/Page.svelte": DialectTypeScript,
	}
	for path, want := range cases {
		got, err := DialectFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := DialectFor("styles/theme.css")
		assert.ErrorIs(t, err, ErrUnsupportedFile)
	})
}

func TestProvider_Parse(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	t.Run("typescript", func(t *testing.T) {
		tree, err := p.Parse(ctx, []byte(`const x: number = 1;`), "a.ts")
		require.NoError(t, err)
		defer tree.Close()
		assert.Equal(t, "program", tree.RootNode().Type())
	})

	t.Run("tsx with jsx element", func(t *testing.T) {
		tree, err := p.Parse(ctx, []byte(`const el = <App prop={1} />;`), "a.tsx")
		require.NoError(t, err)
		defer tree.Close()
		assert.False(t, tree.RootNode().HasError())
	})

	t.Run("unsupported path", func(t *testing.T) {
		_, err := p.Parse(ctx, []byte("x"), "a.css")
		assert.Error(t, err)
	})
}

func TestScriptBlock(t *testing.T) {
	t.Run("plain script", func(t *testing.T) {
		svelte := []byte("<script>\nimport A from './A.svelte';\n</script>\n<h1>hi</h1>")
		assert.Equal(t, "\nimport A from './A.svelte';\n", string(ScriptBlock(svelte)))
	})

	t.Run("script with attributes", func(t *testing.T) {
		svelte := []byte(`<script lang="ts">let n = 1;</script>`)
		assert.Equal(t, "let n = 1;", string(ScriptBlock(svelte)))
	})

	t.Run("no script block", func(t *testing.T) {
		assert.Nil(t, ScriptBlock([]byte("<h1>static</h1>")))
	})

	t.Run("unterminated script block", func(t *testing.T) {
		assert.Nil(t, ScriptBlock([]byte("<script>let x = 1;")))
	})
}
