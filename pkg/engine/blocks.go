package engine

import (
	"fmt"

	"github.com/cuemby/ledgerstore/pkg/log"
	"github.com/cuemby/ledgerstore/pkg/types"
)

const (
	blockNamespace = "block"
	stateNamespace = "state"
)

// PutBlock writes block b. If b's hash already exists in the Blob Store,
// the call returns immediately without writing anything, including b's
// transactions. Otherwise, under the block write lock, every contained
// transaction is put first (each idempotent), then the block body is put
// to block/<hash> — so any reader that observes the block in
// IterateBlockHashes can always read every one of its transactions.
func (e *Engine) PutBlock(b types.Block) error {
	hash := b.Hash()

	exists, err := e.blobs.Exists(blockNamespace, hash.String())
	if err != nil {
		return fmt.Errorf("engine: put block %s: %w", hash, err)
	}
	if exists {
		return nil
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	// Re-check under the write lock: another writer may have committed
	// the same block between the unlocked check above and acquiring the
	// lock.
	exists, err = e.blobs.Exists(blockNamespace, hash.String())
	if err != nil {
		return fmt.Errorf("engine: put block %s: %w", hash, err)
	}
	if exists {
		return nil
	}

	for _, t := range b.Transactions() {
		if err := e.txs.Put(t); err != nil {
			return fmt.Errorf("engine: put block %s: transaction %s: %w", hash, t.ID(), err)
		}
	}

	if err := e.blobs.Put(blockNamespace, hash.String(), b.Bytes()); err != nil {
		return fmt.Errorf("engine: put block %s: %w", hash, err)
	}

	log.WithBlockHash(hash.String()).Debug().Int("tx_count", len(b.Transactions())).Msg("put block")
	return nil
}

// DeleteBlock removes only the block/<h> blob; contained transactions are
// not deleted, since they may belong to other blocks.
func (e *Engine) DeleteBlock(h types.BlockHash) (bool, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	existed, err := e.blobs.Delete(blockNamespace, h.String())
	if err != nil {
		log.WithBlockHash(h.String()).Warn().Err(err).Msg("delete block failed")
		return false, fmt.Errorf("engine: delete block %s: %w", h, err)
	}
	return existed, nil
}

// IterateBlockHashes returns every key present in the block/ namespace.
func (e *Engine) IterateBlockHashes() ([]types.BlockHash, error) {
	e.lock.RLock()
	defer e.lock.RUnlock()

	hexHashes, err := e.blobs.List(blockNamespace)
	if err != nil {
		return nil, fmt.Errorf("engine: iterate block hashes: %w", err)
	}
	hashes := make([]types.BlockHash, 0, len(hexHashes))
	for _, hx := range hexHashes {
		h, err := types.ParseBlockHash(hx)
		if err != nil {
			return nil, fmt.Errorf("engine: iterate block hashes: corrupt key %q: %w", hx, err)
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

// CountBlocks returns the number of blocks in the block/ namespace.
func (e *Engine) CountBlocks() (int64, error) {
	e.lock.RLock()
	defer e.lock.RUnlock()

	n, err := e.blobs.Count(blockNamespace)
	if err != nil {
		return 0, fmt.Errorf("engine: count blocks: %w", err)
	}
	return n, nil
}

// GetRawBlock returns h's serialized block body, or ok=false if absent.
// Rather than an upgradeable read lock, it takes the plain exclusive lock
// for the whole operation: there's no separate shared read phase worth
// protecting before the blob lookup.
func (e *Engine) GetRawBlock(h types.BlockHash) ([]byte, bool, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	data, ok, err := e.blobs.Get(blockNamespace, h.String())
	if err != nil {
		return nil, false, fmt.Errorf("engine: get raw block %s: %w", h, err)
	}
	return data, ok, nil
}
