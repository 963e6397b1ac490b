package engine

import (
	"os"
	"testing"

	"github.com/cuemby/ledgerstore/pkg/types"
)

func testChainID(t *testing.T, suffix string) types.ChainID {
	t.Helper()
	hexStr := suffix
	for len(hexStr) < 32 {
		hexStr = "0" + hexStr
	}
	id, err := types.ParseChainID(hexStr)
	if err != nil {
		t.Fatalf("ParseChainID(%q): %v", hexStr, err)
	}
	return id
}

func testBlockHash(t *testing.T, suffix string) types.BlockHash {
	t.Helper()
	hexStr := suffix
	for len(hexStr) < 64 {
		hexStr = "0" + hexStr
	}
	h, err := types.ParseBlockHash(hexStr)
	if err != nil {
		t.Fatalf("ParseBlockHash(%q): %v", hexStr, err)
	}
	return h
}

func testTxID(t *testing.T, suffix string) types.TxID {
	t.Helper()
	hexStr := suffix
	for len(hexStr) < 64 {
		hexStr = "0" + hexStr
	}
	id, err := types.ParseTxID(hexStr)
	if err != nil {
		t.Fatalf("ParseTxID(%q): %v", hexStr, err)
	}
	return id
}

func testAddress(t *testing.T, suffix string) types.Address {
	t.Helper()
	hexStr := suffix
	for len(hexStr) < 40 {
		hexStr = "0" + hexStr
	}
	a, err := types.ParseAddress(hexStr)
	if err != nil {
		t.Fatalf("ParseAddress(%q): %v", hexStr, err)
	}
	return a
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func rawTx(t *testing.T, suffix string) types.RawTransaction {
	t.Helper()
	return types.RawTransaction{TxID: testTxID(t, suffix), Payload: []byte("payload-" + suffix)}
}

func rawBlock(t *testing.T, suffix string, txs ...types.RawTransaction) types.RawBlock {
	t.Helper()
	list := make([]types.Transaction, len(txs))
	for i, tx := range txs {
		list[i] = tx
	}
	return types.RawBlock{BlockHash: testBlockHash(t, suffix), Payload: []byte("block-" + suffix), Txs: list}
}
