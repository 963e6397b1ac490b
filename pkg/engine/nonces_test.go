package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetTxNonceDefaultsToZero(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "01")
	addr := testAddress(t, "aa")

	n, err := e.GetTxNonce(c, addr)
	require.NoError(t, err)
	require.Zero(t, n)
}

// TestNonceMonotonicity reproduces the nonce monotonicity invariant under
// serialized callers: repeated IncreaseTxNonce calls sum their deltas.
func TestNonceMonotonicity(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "01")
	addr := testAddress(t, "aa")

	deltas := []int64{1, 2, 3, 4}
	var want int64
	for _, d := range deltas {
		require.NoError(t, e.IncreaseTxNonce(c, addr, d))
		want += d
	}

	got, err := e.GetTxNonce(c, addr)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestListTxNoncesOnlyPositive(t *testing.T) {
	e := newTestEngine(t)
	c := testChainID(t, "01")
	a1 := testAddress(t, "01")
	a2 := testAddress(t, "02")

	require.NoError(t, e.IncreaseTxNonce(c, a1, 3))
	require.NoError(t, e.IncreaseTxNonce(c, a2, 0))

	addrs, nonces, err := e.ListTxNonces(c)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	require.Equal(t, a1, addrs[0])
	require.EqualValues(t, 3, nonces[0])
}
