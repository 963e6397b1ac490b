package engine

import (
	"fmt"

	"github.com/cuemby/ledgerstore/pkg/kvindex"
	"github.com/cuemby/ledgerstore/pkg/metrics"
	"github.com/cuemby/ledgerstore/pkg/types"
	bolt "go.etcd.io/bbolt"
)

// StageTransactionIds adds every id in ids to the process-wide staged set.
// Already-staged ids are not duplicated.
func (e *Engine) StageTransactionIds(ids []types.TxID) error {
	var addedCount int
	err := e.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, stagedBucketName)
		if err != nil {
			return err
		}
		existing := make(map[types.TxID]bool)
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			id, err := types.ParseTxID(string(v))
			if err != nil {
				continue
			}
			existing[id] = true
		}
		for _, id := range ids {
			if existing[id] {
				continue
			}
			_, key, err := kvindex.NextAutoID(b)
			if err != nil {
				return err
			}
			if err := b.Put(key, []byte(id.String())); err != nil {
				return fmt.Errorf("put staged txid: %w", err)
			}
			existing[id] = true
			addedCount++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("engine: stage transaction ids: %w", err)
	}
	metrics.StagedTxsTotal.Add(float64(addedCount))
	return nil
}

// UnstageTransactionIds removes every id in ids from the staged set.
func (e *Engine) UnstageTransactionIds(ids []types.TxID) error {
	remove := make(map[types.TxID]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	var removedCount int
	err := e.db.Update(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, stagedBucketName)
		if b == nil {
			return nil
		}
		var keysToDelete [][]byte
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			id, err := types.ParseTxID(string(v))
			if err != nil {
				continue
			}
			if remove[id] {
				kc := make([]byte, len(k))
				copy(kc, k)
				keysToDelete = append(keysToDelete, kc)
			}
		}
		for _, k := range keysToDelete {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("delete staged txid: %w", err)
			}
			removedCount++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("engine: unstage transaction ids: %w", err)
	}
	metrics.StagedTxsTotal.Sub(float64(removedCount))
	return nil
}

// IterateStagedTransactionIds returns every staged transaction ID,
// deduplicated.
func (e *Engine) IterateStagedTransactionIds() ([]types.TxID, error) {
	var ids []types.TxID
	seen := make(map[types.TxID]bool)
	err := e.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, stagedBucketName)
		if b == nil {
			return nil
		}
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			id, err := types.ParseTxID(string(v))
			if err != nil {
				continue
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("engine: iterate staged transaction ids: %w", err)
	}
	return ids, nil
}
