package engine

import (
	"fmt"

	"github.com/cuemby/ledgerstore/pkg/kvindex"
	"github.com/cuemby/ledgerstore/pkg/metrics"
	"github.com/cuemby/ledgerstore/pkg/types"
	bolt "go.etcd.io/bbolt"
)

// CountIndex returns the number of block-index records for c.
func (e *Engine) CountIndex(c types.ChainID) (int64, error) {
	var n int64
	err := e.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, indexBucketName(c))
		n = kvindex.Count(b)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("engine: count index %s: %w", c, err)
	}
	return n, nil
}

// IterateIndexes yields block hashes for c in chain order, skipping offset
// and capping at limit. limit <= 0 means unbounded.
func (e *Engine) IterateIndexes(c types.ChainID, offset, limit int64) ([]types.BlockHash, error) {
	var hashes []types.BlockHash
	err := e.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, indexBucketName(c))
		if b == nil {
			return nil
		}
		var skipped int64
		var yielded int64
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && yielded >= limit {
				break
			}
			h, err := types.ParseBlockHash(string(v))
			if err != nil {
				return fmt.Errorf("corrupt index record at key %x: %w", k, err)
			}
			hashes = append(hashes, h)
			yielded++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("engine: iterate indexes %s: %w", c, err)
	}
	return hashes, nil
}

// IndexBlockHash returns the block hash at chain order position i, or
// ok=false if out of range. Negative i is interpreted modulo count: the
// effective index is i+count; if still negative, the result is absence.
func (e *Engine) IndexBlockHash(c types.ChainID, i int64) (types.BlockHash, bool, error) {
	var hash types.BlockHash
	var ok bool
	err := e.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, indexBucketName(c))
		if b == nil {
			return nil
		}
		count := kvindex.Count(b)
		effective := i
		if effective < 0 {
			effective += count
		}
		if effective < 0 || effective >= count {
			return nil
		}
		// Auto-ids are 1-based (id = height+1).
		key := kvindex.EncodeUint64(uint64(effective + 1))
		v := b.Get(key)
		if v == nil {
			return nil
		}
		h, err := types.ParseBlockHash(string(v))
		if err != nil {
			return fmt.Errorf("corrupt index record at height %d: %w", effective, err)
		}
		hash = h
		ok = true
		return nil
	})
	if err != nil {
		return types.BlockHash{}, false, fmt.Errorf("engine: index block hash %s[%d]: %w", c, i, err)
	}
	return hash, ok, nil
}

// AppendIndex appends h to c's chain order and returns the zero-based
// height at which it was placed.
func (e *Engine) AppendIndex(c types.ChainID, h types.BlockHash) (int64, error) {
	var height int64
	err := e.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, indexBucketName(c))
		if err != nil {
			return err
		}
		id, key, err := kvindex.NextAutoID(b)
		if err != nil {
			return err
		}
		if err := b.Put(key, []byte(h.String())); err != nil {
			return fmt.Errorf("put index record: %w", err)
		}
		height = int64(id) - 1
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("engine: append index %s: %w", c, err)
	}
	metrics.CollectionOpsTotal.WithLabelValues(indexBucketName(c), "append").Inc()
	return height, nil
}

// DeleteIndex deletes any index record with hash h, returning whether at
// least one was deleted.
func (e *Engine) DeleteIndex(c types.ChainID, h types.BlockHash) (bool, error) {
	var deleted bool
	err := e.db.Update(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, indexBucketName(c))
		if b == nil {
			return nil
		}
		target := h.String()
		cur := b.Cursor()
		var keysToDelete [][]byte
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			if string(v) == target {
				kc := make([]byte, len(k))
				copy(kc, k)
				keysToDelete = append(keysToDelete, kc)
			}
		}
		for _, k := range keysToDelete {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("delete index record: %w", err)
			}
			deleted = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("engine: delete index %s: %w", c, err)
	}
	return deleted, nil
}

// ForkBlockIndexes copies from src into dst every index record encountered
// in order up to but not including the first occurrence of branchPoint,
// then appends branchPoint. dst's chain ends up equal to src's prefix
// ending at branchPoint.
func (e *Engine) ForkBlockIndexes(src, dst types.ChainID, branchPoint types.BlockHash) error {
	hashes, err := e.IterateIndexes(src, 0, 0)
	if err != nil {
		return err
	}
	err = e.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, indexBucketName(dst))
		if err != nil {
			return err
		}
		for _, h := range append(hashes, branchPoint) {
			_, key, err := kvindex.NextAutoID(b)
			if err != nil {
				return err
			}
			if err := b.Put(key, []byte(h.String())); err != nil {
				return fmt.Errorf("put forked index record: %w", err)
			}
			if h == branchPoint {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("engine: fork block indexes %s->%s: %w", src, dst, err)
	}
	return nil
}
