package txstore

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cuemby/ledgerstore/pkg/metrics"
	"github.com/cuemby/ledgerstore/pkg/types"
	"github.com/cuemby/ledgerstore/pkg/vfs"
)

const (
	shardLen = 2
	restLen  = 62
)

// Store is the filesystem-backed Transaction Store.
type Store struct {
	fs vfs.FS
}

// New creates a Store writing through fs.
func New(fs vfs.FS) *Store {
	return &Store{fs: fs}
}

func pathFor(id types.TxID) string {
	h := hex.EncodeToString(id[:])
	return h[:shardLen] + "/" + h[shardLen:]
}

// Put serializes tx and writes it atomically. Re-putting a transaction
// with the same ID rewrites the same bytes at the same path, so the stored
// content and size do not change; on OSFS, if the final rename fails, an
// identically sized existing destination is treated as already committed.
func (s *Store) Put(tx types.Transaction) error {
	path := pathFor(tx.ID())
	if err := s.fs.AtomicWrite(path, tx.Bytes()); err != nil {
		metrics.TxOpsTotal.WithLabelValues("put", "error").Inc()
		return fmt.Errorf("txstore: put %s: %w", tx.ID(), err)
	}
	metrics.TxOpsTotal.WithLabelValues("put", "ok").Inc()
	return nil
}

// Get returns the raw bytes for id, or ok=false if absent. A concurrent
// delete observed mid-read is also reported as absence, not an error.
func (s *Store) Get(id types.TxID) (data []byte, ok bool, err error) {
	data, err = s.fs.ReadFile(pathFor(id))
	if errors.Is(err, vfs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("txstore: get %s: %w", id, err)
	}
	return data, true, nil
}

// Delete removes id's file, reporting whether it was present before the
// call.
func (s *Store) Delete(id types.TxID) (bool, error) {
	path := pathFor(id)
	existed, err := s.fs.Exists(path)
	if err != nil {
		return false, fmt.Errorf("txstore: delete %s: %w", id, err)
	}
	if !existed {
		return false, nil
	}
	if err := s.fs.Remove(path); err != nil {
		return false, fmt.Errorf("txstore: delete %s: %w", id, err)
	}
	return true, nil
}

// Iterate calls fn once for every valid TxId found under the store root,
// scanning the two-level shard/file tree. Entries whose shard directory
// name is not exactly two hex characters, whose file name is not exactly
// 62 hex characters, or whose concatenation does not parse as a TxId are
// silently skipped, tolerating stray or in-progress temp files. Iteration
// stops and returns fn's error if fn returns one.
func (s *Store) Iterate(fn func(types.TxID) error) error {
	shards, err := s.fs.ReadDir("")
	if err != nil {
		return fmt.Errorf("txstore: iterate: %w", err)
	}
	for _, shard := range shards {
		if len(shard) != shardLen || !isHex(shard) {
			continue
		}
		names, err := s.fs.ReadDir(shard)
		if err != nil {
			return fmt.Errorf("txstore: iterate %s: %w", shard, err)
		}
		for _, name := range names {
			if len(name) != restLen || !isHex(name) {
				continue
			}
			id, err := types.ParseTxID(shard + name)
			if err != nil {
				continue
			}
			if err := fn(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// IterateIds returns every valid TxId under the store root, for callers
// that prefer a materialized slice over a callback.
func (s *Store) IterateIds() ([]types.TxID, error) {
	var ids []types.TxID
	err := s.Iterate(func(id types.TxID) error {
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

// Count returns the number of valid transaction files under the store
// root. Expected to be O(N); the engine facade may cache this instead of
// calling it on every request.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.Iterate(func(types.TxID) error {
		n++
		return nil
	})
	return n, err
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return len(s) > 0
}
