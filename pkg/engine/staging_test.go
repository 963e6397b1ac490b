package engine

import (
	"testing"

	"github.com/cuemby/ledgerstore/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestStageAndUnstageTransactionIds(t *testing.T) {
	e := newTestEngine(t)
	id1 := testTxID(t, "11")
	id2 := testTxID(t, "22")

	require.NoError(t, e.StageTransactionIds([]types.TxID{id1, id2}))

	ids, err := e.IterateStagedTransactionIds()
	require.NoError(t, err)
	require.ElementsMatch(t, []types.TxID{id1, id2}, ids)

	require.NoError(t, e.UnstageTransactionIds([]types.TxID{id1}))

	ids, err = e.IterateStagedTransactionIds()
	require.NoError(t, err)
	require.Equal(t, []types.TxID{id2}, ids)
}

func TestStageTransactionIdsDeduplicates(t *testing.T) {
	e := newTestEngine(t)
	id := testTxID(t, "11")

	require.NoError(t, e.StageTransactionIds([]types.TxID{id}))
	require.NoError(t, e.StageTransactionIds([]types.TxID{id}))

	ids, err := e.IterateStagedTransactionIds()
	require.NoError(t, err)
	require.Len(t, ids, 1)
}
