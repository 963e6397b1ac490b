package engine

import (
	"fmt"

	"github.com/cuemby/ledgerstore/pkg/types"
)

// PutTransaction serializes and writes tx. Re-putting a transaction with
// the same ID rewrites the same bytes; the stored content and size do not
// change.
func (e *Engine) PutTransaction(tx types.Transaction) error {
	if err := e.txs.Put(tx); err != nil {
		return fmt.Errorf("engine: put transaction %s: %w", tx.ID(), err)
	}
	return nil
}

// GetTransaction returns id's raw bytes, or ok=false if absent.
func (e *Engine) GetTransaction(id types.TxID) ([]byte, bool, error) {
	data, ok, err := e.txs.Get(id)
	if err != nil {
		return nil, false, fmt.Errorf("engine: get transaction %s: %w", id, err)
	}
	return data, ok, nil
}

// DeleteTransaction removes id, reporting whether it was present before
// the call.
func (e *Engine) DeleteTransaction(id types.TxID) (bool, error) {
	existed, err := e.txs.Delete(id)
	if err != nil {
		return false, fmt.Errorf("engine: delete transaction %s: %w", id, err)
	}
	return existed, nil
}

// IterateTransactionIds returns every transaction ID in the Transaction
// Store.
func (e *Engine) IterateTransactionIds() ([]types.TxID, error) {
	ids, err := e.txs.IterateIds()
	if err != nil {
		return nil, fmt.Errorf("engine: iterate transaction ids: %w", err)
	}
	return ids, nil
}

// CountTransactions iterates the Transaction Store and counts. Expected
// to be O(N) on disk since files aren't tracked by a counter; a caller
// that needs this hot should cache the count itself.
func (e *Engine) CountTransactions() (int64, error) {
	n, err := e.txs.Count()
	if err != nil {
		return 0, fmt.Errorf("engine: count transactions: %w", err)
	}
	return n, nil
}
