package engine

import (
	"testing"

	"github.com/cuemby/ledgerstore/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestCanonicalChainPointerRoundTrip(t *testing.T) {
	// Scenario 6: fresh engine has no canonical pointer; SetCanonicalChainId
	// then overwriting it are both reflected by GetCanonicalChainId.
	e := newTestEngine(t)

	_, ok, err := e.GetCanonicalChainId()
	require.NoError(t, err)
	require.False(t, ok)

	g := testChainID(t, "01")
	require.NoError(t, e.SetCanonicalChainId(g))
	got, ok, err := e.GetCanonicalChainId()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, g, got)

	gPrime := testChainID(t, "02")
	require.NoError(t, e.SetCanonicalChainId(gPrime))
	got, ok, err = e.GetCanonicalChainId()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, gPrime, got)
}

func TestListChainIdsAndDelete(t *testing.T) {
	e := newTestEngine(t)

	c1 := testChainID(t, "01")
	c2 := testChainID(t, "02")
	_, err := e.AppendIndex(c1, testBlockHash(t, "aa"))
	require.NoError(t, err)
	_, err = e.AppendIndex(c2, testBlockHash(t, "bb"))
	require.NoError(t, err)

	ids, err := e.ListChainIds()
	require.NoError(t, err)
	require.Contains(t, ids, c1)
	require.Contains(t, ids, c2)

	require.NoError(t, e.DeleteChainId(c1))
	ids, err = e.ListChainIds()
	require.NoError(t, err)
	require.NotContains(t, ids, c1)
	require.Contains(t, ids, c2)
}

// TestDeleteChainIdPreservesSharedData verifies DeleteChainId drops only
// the per-chain index/stateref/nonce collections, leaving blocks,
// transactions, and state snapshots retrievable.
func TestDeleteChainIdPreservesSharedData(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "05")

	tx := rawTx(t, "11")
	block := rawBlock(t, "aa", tx)
	require.NoError(t, e.PutBlock(block))
	require.NoError(t, e.SetBlockStates(block.Hash(), nil))
	_, err := e.AppendIndex(c, block.Hash())
	require.NoError(t, err)

	require.NoError(t, e.DeleteChainId(c))

	count, err := e.CountIndex(c)
	require.NoError(t, err)
	require.Zero(t, count)

	_, ok, err := e.GetRawBlock(block.Hash())
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = e.GetTransaction(tx.ID())
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = e.GetBlockStates(block.Hash())
	require.NoError(t, err)
	require.True(t, ok)
}

// TestDeleteChainIdDropsStateRefSecondaryIndexes guards against dropping
// only the primary stateref collection and leaving its address/blockIndex
// secondary indexes behind: a chain reused after delete must start with no
// addresses and no state-refs.
func TestDeleteChainIdDropsStateRefSecondaryIndexes(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "07")
	addr := testAddress(t, "aa")

	require.NoError(t, e.StoreStateReference(c, []types.Address{addr}, testBlockHash(t, "bb"), 1))

	require.NoError(t, e.DeleteChainId(c))

	addrs, err := e.ListAddresses(c)
	require.NoError(t, err)
	require.Empty(t, addrs)

	refs, err := e.IterateStateReferences(c, addr, NoHighestIndex, 0, 0)
	require.NoError(t, err)
	require.Empty(t, refs)
}
