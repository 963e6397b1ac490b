package blobstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cuemby/ledgerstore/pkg/kvindex"
	"github.com/cuemby/ledgerstore/pkg/log"
	"github.com/cuemby/ledgerstore/pkg/metrics"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "blobs"

// Store is a namespaced, content-addressed blob surface over one bbolt
// bucket shared by every namespace; keys are "<namespace>/<hexHash>".
type Store struct {
	db *kvindex.DB
}

// New creates a Store over db.
func New(db *kvindex.DB) *Store {
	return &Store{db: db}
}

func key(namespace, hash string) []byte {
	return []byte(namespace + "/" + hash)
}

// Put writes hash's bytes under namespace. If an entry for hash already
// exists, Put is a no-op and returns success without rewriting — the
// first-writer-wins rule the Block Store's PutBlock relies on.
func (s *Store) Put(namespace, hash string, data []byte) error {
	noop := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, bucketName)
		if err != nil {
			return err
		}
		if b.Get(key(namespace, hash)) != nil {
			noop = true
			return nil
		}
		return b.Put(key(namespace, hash), data)
	})
	if noop {
		log.WithComponent("blobstore").Debug().Str("namespace", namespace).Str("hash", hash).Msg("put: already present, skipping write")
	}
	if err != nil {
		metrics.BlobOpsTotal.WithLabelValues(namespace, "put", "error").Inc()
		return fmt.Errorf("blobstore: put %s/%s: %w", namespace, hash, err)
	}
	metrics.BlobOpsTotal.WithLabelValues(namespace, "put", "ok").Inc()
	return nil
}

// Replace writes hash's bytes under namespace unconditionally, overwriting
// any existing entry. State snapshots require this: a recomputed snapshot
// must be able to replace a stale one.
func (s *Store) Replace(namespace, hash string, data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, bucketName)
		if err != nil {
			return err
		}
		return b.Put(key(namespace, hash), data)
	})
	if err != nil {
		metrics.BlobOpsTotal.WithLabelValues(namespace, "replace", "error").Inc()
		return fmt.Errorf("blobstore: replace %s/%s: %w", namespace, hash, err)
	}
	metrics.BlobOpsTotal.WithLabelValues(namespace, "replace", "ok").Inc()
	return nil
}

// Get returns hash's bytes under namespace, or ok=false if absent.
func (s *Store) Get(namespace, hash string) (data []byte, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, bucketName)
		if b == nil {
			return nil
		}
		v := b.Get(key(namespace, hash))
		if v == nil {
			return nil
		}
		ok = true
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("blobstore: get %s/%s: %w", namespace, hash, err)
	}
	return data, ok, nil
}

// Exists reports whether hash is present under namespace, without reading
// its value.
func (s *Store) Exists(namespace, hash string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, bucketName)
		if b == nil {
			return nil
		}
		found = b.Get(key(namespace, hash)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("blobstore: exists %s/%s: %w", namespace, hash, err)
	}
	return found, nil
}

// Delete removes hash's entry under namespace, returning whether it was
// present before the call.
func (s *Store) Delete(namespace, hash string) (bool, error) {
	var existed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, bucketName)
		if err != nil {
			return err
		}
		k := key(namespace, hash)
		existed = b.Get(k) != nil
		if !existed {
			return nil
		}
		return b.Delete(k)
	})
	if err != nil {
		return false, fmt.Errorf("blobstore: delete %s/%s: %w", namespace, hash, err)
	}
	if existed {
		metrics.BlobOpsTotal.WithLabelValues(namespace, "delete", "ok").Inc()
	}
	return existed, nil
}

// List returns every hash present under namespace.
func (s *Store) List(namespace string) ([]string, error) {
	var hashes []string
	prefix := namespace + "/"
	err := s.db.View(func(tx *bolt.Tx) error {
		b := kvindex.Bucket(tx, bucketName)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			hashes = append(hashes, strings.TrimPrefix(string(k), prefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blobstore: list %s: %w", namespace, err)
	}
	sort.Strings(hashes)
	return hashes, nil
}

// Count returns the number of entries present under namespace.
func (s *Store) Count(namespace string) (int64, error) {
	hashes, err := s.List(namespace)
	if err != nil {
		return 0, err
	}
	return int64(len(hashes)), nil
}
