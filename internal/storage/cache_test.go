package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eblot/doxyclang/pkg/types"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleUnit() *Unit {
	return &Unit{
		File: "/tmp/demo.c",
		Prototypes: []types.Prototype{
			{
				Name:       "add",
				ReturnType: "int",
				Line:       3,
				File:       "/tmp/demo.c",
				Params: []types.Parameter{
					{Type: "int", Name: "a"},
					{Type: "int", Name: "b"},
				},
			},
		},
		Blocks: []types.DocBlock{
			{
				Summary:    "Adds two ints.",
				Params:     map[string]string{"a": "left operand"},
				ParamOrder: []string{"a"},
				DeclLine:   3,
			},
		},
	}
}

func TestCacheRoundtrip(t *testing.T) {
	c := newTestCache(t)
	unit := sampleUnit()
	hash := ContentHash([]byte("src"), []byte("dump"))

	require.NoError(t, c.Put(hash, unit))

	got, ok, err := c.Get(hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, unit, got)
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)
	_, ok, err := c.Get(ContentHash([]byte("never"), []byte("stored")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheReplace(t *testing.T) {
	c := newTestCache(t)
	hash := ContentHash([]byte("src"), []byte("dump"))

	first := sampleUnit()
	require.NoError(t, c.Put(hash, first))

	second := sampleUnit()
	second.File = "/tmp/renamed.c"
	require.NoError(t, c.Put(hash, second))

	got, ok, err := c.Get(hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/tmp/renamed.c", got.File)
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t)
	hash := ContentHash([]byte("src"), []byte("dump"))
	require.NoError(t, c.Put(hash, sampleUnit()))
	require.NoError(t, c.Clear())

	_, ok, err := c.Get(hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("abc"), []byte("def"))
	assert.Equal(t, a, ContentHash([]byte("abc"), []byte("def")))
	assert.NotEqual(t, a, ContentHash([]byte("abc"), []byte("xyz")))
	// the length prefix keeps boundary shifts from colliding
	assert.NotEqual(t, ContentHash([]byte("ab"), []byte("cdef")), a)
}
