package kvindex

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	bolt "go.etcd.io/bbolt"
)

// Options configures the options the engine recognizes at open. Not every
// field maps onto a bbolt knob one-to-one; where it doesn't, the field is
// accepted for config compatibility and documented below rather than
// silently ignored.
type Options struct {
	// Journal enables double-write-check durability. bbolt always
	// journals page writes through its own copy-on-write B+tree and has
	// no "journal off" mode, so this field has no bbolt equivalent; it
	// is accepted and stored but does not change how Open configures
	// bbolt.
	Journal bool `yaml:"journal"`

	// CacheSize bounds the number of cached pages. bbolt relies on the
	// OS page cache instead of an explicit page cache, so this is used
	// only to size the initial mmap, as a hint to avoid early remaps on
	// a database expected to grow large.
	CacheSize int `yaml:"cacheSize"`

	// Flush, when true, bypasses the OS write cache (fsync on every
	// commit). Maps directly to the negation of bbolt's NoSync.
	Flush bool `yaml:"flush"`

	// ReadOnly rejects mutating operations. Maps directly to bbolt's
	// ReadOnly open option.
	ReadOnly bool `yaml:"readOnly"`
}

// DefaultOptions returns the documented defaults: journal on, cacheSize
// 50000, flush on, readOnly off.
func DefaultOptions() Options {
	return Options{Journal: true, CacheSize: 50000, Flush: true, ReadOnly: false}
}

// DB wraps a bbolt database file, applying the macOS exclusive-open
// workaround and tracking whether the backing file should be removed on
// Close (used for the in-memory engine mode).
type DB struct {
	bolt          *bolt.DB
	path          string
	removeOnClose bool
}

// Open opens or creates the database file at path under the given options.
func Open(path string, opts Options) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("kvindex: create dir for %s: %w", path, err)
	}

	readOnly := opts.ReadOnly
	if runtime.GOOS == "darwin" {
		// Shared locking is unreliable on macOS for memory-mapped files
		// under concurrent process access; force a non-shared, writable
		// open regardless of the caller's requested mode.
		readOnly = false
	}

	boltOpts := &bolt.Options{
		ReadOnly: readOnly,
		NoSync:   !opts.Flush,
	}
	if opts.CacheSize > 0 {
		boltOpts.InitialMmapSize = opts.CacheSize * os.Getpagesize()
	}

	db, err := bolt.Open(path, 0o600, boltOpts)
	if err != nil {
		return nil, fmt.Errorf("kvindex: open %s: %w", path, err)
	}
	return &DB{bolt: db, path: path}, nil
}

// OpenMemory opens a database backed by a private temp file, for the
// engine's in-memory mode. bbolt has no pure in-memory backend, so this
// uses a temp file that Close removes — the closest faithful rendering of
// "both the document database and a virtual filesystem live in memory"
// that an mmap-based KV engine can offer.
func OpenMemory() (*DB, error) {
	f, err := os.CreateTemp("", "ledgerstore-mem-*.db")
	if err != nil {
		return nil, fmt.Errorf("kvindex: create temp db: %w", err)
	}
	path := f.Name()
	_ = f.Close()

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("kvindex: open temp db %s: %w", path, err)
	}
	return &DB{bolt: db, path: path, removeOnClose: true}, nil
}

// Close closes the underlying bbolt database, then removes its backing
// file if it was created by OpenMemory.
func (db *DB) Close() error {
	err := db.bolt.Close()
	if db.removeOnClose {
		_ = os.Remove(db.path)
	}
	return err
}

// View runs fn in a read-only bbolt transaction.
func (db *DB) View(fn func(tx *bolt.Tx) error) error {
	return db.bolt.View(fn)
}

// Update runs fn in a read-write bbolt transaction.
func (db *DB) Update(fn func(tx *bolt.Tx) error) error {
	return db.bolt.Update(fn)
}

// Size returns the current on-disk size of the database file.
func (db *DB) Size() (int64, error) {
	info, err := os.Stat(db.path)
	if err != nil {
		return 0, fmt.Errorf("kvindex: stat %s: %w", db.path, err)
	}
	return info.Size(), nil
}

// Path returns the database file's path.
func (db *DB) Path() string {
	return db.path
}
