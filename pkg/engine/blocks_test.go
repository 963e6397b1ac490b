package engine

import (
	"testing"

	"github.com/cuemby/ledgerstore/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestBlockIdempotence reproduces scenario 3: PutBlock twice succeeds both
// times and the block is still stored exactly once.
func TestBlockIdempotence(t *testing.T) {
	e := newTestEngine(t)

	tx1 := rawTx(t, "11")
	tx2 := rawTx(t, "22")
	block := rawBlock(t, "aa", tx1, tx2)

	require.NoError(t, e.PutBlock(block))

	hashes, err := e.IterateBlockHashes()
	require.NoError(t, err)
	require.Len(t, hashes, 1)

	require.NoError(t, e.PutBlock(block))

	hashes, err = e.IterateBlockHashes()
	require.NoError(t, err)
	require.Len(t, hashes, 1)

	count, err := e.CountBlocks()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestPutBlockStoresTransactions(t *testing.T) {
	e := newTestEngine(t)

	tx1 := rawTx(t, "11")
	tx2 := rawTx(t, "22")
	block := rawBlock(t, "aa", tx1, tx2)

	require.NoError(t, e.PutBlock(block))

	data, ok, err := e.GetTransaction(tx1.ID())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tx1.Bytes(), data)

	data, ok, err = e.GetTransaction(tx2.ID())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tx2.Bytes(), data)
}

func TestDeleteBlockKeepsTransactions(t *testing.T) {
	e := newTestEngine(t)

	tx := rawTx(t, "11")
	block := rawBlock(t, "aa", tx)
	require.NoError(t, e.PutBlock(block))

	existed, err := e.DeleteBlock(block.Hash())
	require.NoError(t, err)
	require.True(t, existed)

	_, ok, err := e.GetRawBlock(block.Hash())
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = e.GetTransaction(tx.ID())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGetRawBlockAbsent(t *testing.T) {
	e := newTestEngine(t)
	_, ok, err := e.GetRawBlock(testBlockHash(t, "ff"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetBlockStatesRoundTripAndOverwrite(t *testing.T) {
	e := newTestEngine(t)
	h := testBlockHash(t, "aa")

	a1 := testAddress(t, "01")
	m := types.StateMap{a1: []byte("v1")}
	require.NoError(t, e.SetBlockStates(h, m))

	got, ok, err := e.GetBlockStates(h)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, m, got)

	mPrime := types.StateMap{a1: []byte("v2")}
	require.NoError(t, e.SetBlockStates(h, mPrime))

	got, ok, err = e.GetBlockStates(h)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, mPrime, got)
}
