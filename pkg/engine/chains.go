package engine

import (
	"fmt"
	"sort"

	"github.com/cuemby/ledgerstore/pkg/kvindex"
	"github.com/cuemby/ledgerstore/pkg/log"
	"github.com/cuemby/ledgerstore/pkg/types"
	bolt "go.etcd.io/bbolt"
)

const (
	indexBucketPrefix    = "index_"
	staterefBucketPrefix = "stateref_"
	nonceBucketPrefix    = "nonce_"
	stagedBucketName     = "staged_txids"
	canonBucketName      = "canon"
	canonKey             = "canon"
)

func indexBucketName(c types.ChainID) string    { return indexBucketPrefix + c.String() }
func staterefBucketName(c types.ChainID) string { return staterefBucketPrefix + c.String() }
func nonceBucketName(c types.ChainID) string    { return nonceBucketPrefix + c.String() }

// ListChainIds returns the set of ChainIds that have ever had an index
// collection created, derived by scanning bucket names with the "index_"
// prefix.
func (e *Engine) ListChainIds() ([]types.ChainID, error) {
	var ids []types.ChainID
	err := e.db.View(func(tx *bolt.Tx) error {
		names, err := kvindex.BucketNamesWithPrefix(tx, indexBucketPrefix)
		if err != nil {
			return err
		}
		for _, name := range names {
			hexPart := name[len(indexBucketPrefix):]
			id, err := types.ParseChainID(hexPart)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("engine: list chain ids: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// DeleteChainId drops the index, state-ref, and nonce collections for c.
// It does not touch blocks, transactions, or state snapshots, which are
// shared content-addressed data. Each bucket is dropped in its own
// transaction: every individual drop is atomic, but the collections are
// not dropped jointly, so a crash partway through can leave some of the
// five buckets dropped and others still present.
func (e *Engine) DeleteChainId(c types.ChainID) error {
	buckets := []string{
		indexBucketName(c),
		staterefBucketName(c),
		staterefByAddrBucketName(c),
		staterefByIndexBucketName(c),
		nonceBucketName(c),
	}
	for _, name := range buckets {
		err := e.db.Update(func(tx *bolt.Tx) error {
			_, err := kvindex.DropBucket(tx, name)
			return err
		})
		if err != nil {
			return fmt.Errorf("engine: delete chain %s: %w", c, err)
		}
	}
	log.WithChainID(c.String()).Debug().Msg("deleted chain")
	return nil
}

// GetCanonicalChainId reads the singleton canonical chain pointer.
func (e *Engine) GetCanonicalChainId() (types.ChainID, bool, error) {
	var id types.ChainID
	var ok bool
	err := e.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, canonBucketName)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(canonKey))
		if v == nil {
			return nil
		}
		if len(v) != len(id) {
			return fmt.Errorf("canon record has length %d, want %d", len(v), len(id))
		}
		copy(id[:], v)
		ok = true
		return nil
	})
	if err != nil {
		return types.ChainID{}, false, fmt.Errorf("engine: get canonical chain id: %w", err)
	}
	return id, ok, nil
}

// SetCanonicalChainId upserts the singleton canonical chain pointer.
func (e *Engine) SetCanonicalChainId(c types.ChainID) error {
	err := e.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, canonBucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(canonKey), c[:])
	})
	if err != nil {
		return fmt.Errorf("engine: set canonical chain id: %w", err)
	}
	log.WithChainID(c.String()).Debug().Msg("set canonical chain id")
	return nil
}
