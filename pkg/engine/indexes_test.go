package engine

import (
	"testing"

	"github.com/cuemby/ledgerstore/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestAppendThenRead reproduces scenario 1: empty chain, two appends,
// count, positive and negative lookups, out-of-range lookup.
func TestAppendThenRead(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "00")

	h1 := testBlockHash(t, "01")
	h2 := testBlockHash(t, "02")

	height, err := e.AppendIndex(c, h1)
	require.NoError(t, err)
	require.EqualValues(t, 0, height)

	height, err = e.AppendIndex(c, h2)
	require.NoError(t, err)
	require.EqualValues(t, 1, height)

	count, err := e.CountIndex(c)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	got, ok, err := e.IndexBlockHash(c, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h1, got)

	got, ok, err = e.IndexBlockHash(c, -1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, h2, got)

	_, ok, err = e.IndexBlockHash(c, 2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIndexBlockHashNegativeModuloUniversalInvariant(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "00")

	hashes := []struct{ suffix string }{{"01"}, {"02"}, {"03"}}
	for _, h := range hashes {
		_, err := e.AppendIndex(c, testBlockHash(t, h.suffix))
		require.NoError(t, err)
	}

	count, err := e.CountIndex(c)
	require.NoError(t, err)

	for i := int64(0); i < count; i++ {
		neg, ok, err := e.IndexBlockHash(c, -1-i)
		require.NoError(t, err)
		require.True(t, ok)
		pos, ok, err := e.IndexBlockHash(c, count-1-i)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, pos, neg)
	}
}

func TestDeleteIndex(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "00")
	h := testBlockHash(t, "01")

	deleted, err := e.DeleteIndex(c, h)
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = e.AppendIndex(c, h)
	require.NoError(t, err)

	deleted, err = e.DeleteIndex(c, h)
	require.NoError(t, err)
	require.True(t, deleted)

	count, err := e.CountIndex(c)
	require.NoError(t, err)
	require.Zero(t, count)
}

// TestForkBlockIndexesPrefix reproduces the fork-prefix universal
// invariant: forking at p on an empty dst gives dst == src's prefix up to
// and including p.
func TestForkBlockIndexesPrefix(t *testing.T) {
	e := newTestEngine(t)
	src := testChainID(t, "01")
	dst := testChainID(t, "02")

	h1 := testBlockHash(t, "01")
	h2 := testBlockHash(t, "02")
	h3 := testBlockHash(t, "03")

	_, err := e.AppendIndex(src, h1)
	require.NoError(t, err)
	_, err = e.AppendIndex(src, h2)
	require.NoError(t, err)
	_, err = e.AppendIndex(src, h3)
	require.NoError(t, err)

	require.NoError(t, e.ForkBlockIndexes(src, dst, h2))

	got, err := e.IterateIndexes(dst, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []types.BlockHash{h1, h2}, got)
}
