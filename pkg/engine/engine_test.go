package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, DefaultOptions())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.SetCanonicalChainId(testChainID(t, "11")))
	id, ok, err := e.GetCanonicalChainId()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testChainID(t, "11"), id)
}

func TestLoadOptionsYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/options.yaml"
	content := []byte("journal: false\ncacheSize: 1000\nflush: false\nreadOnly: true\n")
	require.NoError(t, writeFile(path, content))

	opts, err := LoadOptionsYAML(path)
	require.NoError(t, err)
	require.False(t, opts.Journal)
	require.Equal(t, 1000, opts.CacheSize)
	require.False(t, opts.Flush)
	require.True(t, opts.ReadOnly)
}
