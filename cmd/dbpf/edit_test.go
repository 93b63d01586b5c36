package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumbob/dbpf"
)

func TestSaveOverRewritesOpenPackage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "edit.package")
	first := dbpf.ResourceKey{Type: 1, Group: 0, Instance: 1}
	second := dbpf.ResourceKey{Type: 1, Group: 0, Instance: 2}

	p := dbpf.New()
	_, err := p.AddResource(first, []byte("one"))
	require.NoError(t, err)
	require.NoError(t, p.SaveToFile(path))

	// Reopen from disk, mutate, and save back over the same path while
	// the package still holds its read handle.
	p, err = dbpf.OpenFile(path)
	require.NoError(t, err)
	_, err = p.AddResource(second, []byte("two"))
	require.NoError(t, err)
	require.NoError(t, saveOver(p, path))

	reopened, err := dbpf.OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, 2, reopened.Len())

	for _, key := range []dbpf.ResourceKey{first, second} {
		e, ok := reopened.Find(key)
		require.True(t, ok, "key %s", key)
		_, err := reopened.ResourceData(e)
		require.NoError(t, err)
	}
}

func TestOpenOrCreate(t *testing.T) {
	t.Parallel()

	// Missing file: a fresh, empty package.
	p, err := openOrCreate(filepath.Join(t.TempDir(), "missing.package"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())

	// Existing file: its contents come back.
	path := filepath.Join(t.TempDir(), "existing.package")
	key := dbpf.ResourceKey{Type: 7, Instance: 7}
	seed := dbpf.New()
	_, err = seed.AddResource(key, []byte("seed"))
	require.NoError(t, err)
	require.NoError(t, seed.SaveToFile(path))

	p, err = openOrCreate(path)
	require.NoError(t, err)
	defer p.Close()
	_, ok := p.Find(key)
	assert.True(t, ok)
}
