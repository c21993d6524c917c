package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"routelens/internal/extractor"
)

func record(path, hash string) *extractor.FileRecord {
	r := extractor.EmptyRecord(path)
	r.Hash = hash
	return r
}

func TestFileCache(t *testing.T) {
	c := New()

	c.Put(record("src/a.ts", "h1"))
	c.Put(record("src/b.ts", "h2"))

	t.Run("get returns the stored record", func(t *testing.T) {
		got := c.Get("src/a.ts")
		assert.NotNil(t, got)
		assert.Equal(t, "h1", got.Hash)
		assert.Nil(t, c.Get("src/missing.ts"))
	})

	t.Run("fresh compares hashes", func(t *testing.T) {
		assert.True(t, c.Fresh("src/a.ts", "h1"))
		assert.False(t, c.Fresh("src/a.ts", "changed"))
		assert.False(t, c.Fresh("src/missing.ts", "h1"))
		assert.False(t, c.Fresh("src/a.ts", ""))
	})

	t.Run("put overwrites by path", func(t *testing.T) {
		c.Put(record("src/a.ts", "h3"))
		assert.Equal(t, "h3", c.Get("src/a.ts").Hash)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("paths are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, c.Paths())
	})

	t.Run("delete then clear", func(t *testing.T) {
		c.Delete("src/a.ts")
		assert.Equal(t, 1, c.Len())
		c.Clear()
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.Paths())
	})

	t.Run("nil put is a no-op", func(t *testing.T) {
		c.Put(nil)
		assert.Equal(t, 0, c.Len())
	})
}
