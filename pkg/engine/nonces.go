package engine

import (
	"encoding/binary"
	"fmt"

	"github.com/cuemby/ledgerstore/pkg/kvindex"
	"github.com/cuemby/ledgerstore/pkg/types"
	bolt "go.etcd.io/bbolt"
)

// GetTxNonce returns address's current nonce on chain, or 0 if no record
// exists.
func (e *Engine) GetTxNonce(chain types.ChainID, address types.Address) (int64, error) {
	var nonce int64
	err := e.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, nonceBucketName(chain))
		if b == nil {
			return nil
		}
		v := b.Get(address[:])
		if v == nil {
			return nil
		}
		nonce = int64(binary.BigEndian.Uint64(v))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("engine: get tx nonce %s/%s: %w", chain, address, err)
	}
	return nonce, nil
}

// IncreaseTxNonce upserts signer's nonce to current+delta. The read of the
// current value and the upsert run inside one bbolt read-write
// transaction, and bbolt runs one such transaction at a time, so
// concurrent increases for the same (chain, address) within this process
// do not lose updates.
func (e *Engine) IncreaseTxNonce(chain types.ChainID, signer types.Address, delta int64) error {
	err := e.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, nonceBucketName(chain))
		if err != nil {
			return err
		}
		var current int64
		if v := b.Get(signer[:]); v != nil {
			current = int64(binary.BigEndian.Uint64(v))
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(current+delta))
		return b.Put(signer[:], buf)
	})
	if err != nil {
		return fmt.Errorf("engine: increase tx nonce %s/%s: %w", chain, signer, err)
	}
	return nil
}

// ListTxNonces yields (address, nonce) for every record on chain whose
// nonce is strictly positive.
func (e *Engine) ListTxNonces(chain types.ChainID) ([]types.Address, []int64, error) {
	var addrs []types.Address
	var nonces []int64
	err := e.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, nonceBucketName(chain))
		if b == nil {
			return nil
		}
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			n := int64(binary.BigEndian.Uint64(v))
			if n <= 0 {
				continue
			}
			if len(k) != 20 {
				continue
			}
			var a types.Address
			copy(a[:], k)
			addrs = append(addrs, a)
			nonces = append(nonces, n)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("engine: list tx nonces %s: %w", chain, err)
	}
	return addrs, nonces, nil
}
