package kvindex

import (
	"encoding/binary"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// EnsureBucket returns the named bucket, creating it if absent.
func EnsureBucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	b, err := tx.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("kvindex: create bucket %s: %w", name, err)
	}
	return b, nil
}

// Bucket returns the named bucket, or nil if it does not exist. Use this in
// read-only transactions, where CreateBucketIfNotExists is unavailable.
func Bucket(tx *bolt.Tx, name string) *bolt.Bucket {
	return tx.Bucket([]byte(name))
}

// DropBucket deletes the named bucket entirely, if it exists. Returns
// whether the bucket existed.
func DropBucket(tx *bolt.Tx, name string) (bool, error) {
	if tx.Bucket([]byte(name)) == nil {
		return false, nil
	}
	if err := tx.DeleteBucket([]byte(name)); err != nil {
		return false, fmt.Errorf("kvindex: drop bucket %s: %w", name, err)
	}
	return true, nil
}

// BucketNamesWithPrefix returns, in lexical order, the names of every
// top-level bucket whose name starts with prefix. ListChainIds derives its
// result by scanning for the "index_" prefix this way.
func BucketNamesWithPrefix(tx *bolt.Tx, prefix string) ([]string, error) {
	var names []string
	err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
		if strings.HasPrefix(string(name), prefix) {
			names = append(names, string(name))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("kvindex: scan bucket names: %w", err)
	}
	return names, nil
}

// EncodeUint64 encodes v as a big-endian 8-byte key. bbolt orders keys
// byte-lexically, so big-endian encoding gives numerically ordered keys —
// the property every auto-increment collection and every blockIndex-sorted
// secondary index depends on.
func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// DecodeUint64 decodes an 8-byte big-endian key produced by EncodeUint64.
func DecodeUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// NextAutoID returns the next auto-increment primary key for the bucket,
// via bbolt's own per-bucket sequence counter, encoded for ordered storage.
// The returned id starts at 1.
func NextAutoID(b *bolt.Bucket) (uint64, []byte, error) {
	id, err := b.NextSequence()
	if err != nil {
		return 0, nil, fmt.Errorf("kvindex: next sequence: %w", err)
	}
	return id, EncodeUint64(id), nil
}

// Count returns the number of entries directly in b.
func Count(b *bolt.Bucket) int64 {
	if b == nil {
		return 0
	}
	return int64(b.Stats().KeyN)
}
