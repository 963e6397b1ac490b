package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cuemby/ledgerstore/pkg/blobstore"
	"github.com/cuemby/ledgerstore/pkg/enginelock"
	"github.com/cuemby/ledgerstore/pkg/kvindex"
	"github.com/cuemby/ledgerstore/pkg/log"
	"github.com/cuemby/ledgerstore/pkg/txstore"
	"github.com/cuemby/ledgerstore/pkg/vfs"
	"gopkg.in/yaml.v3"
)

// Errors raised as preconditions (argument errors), never swallowed.
var (
	// ErrInvalidRange is returned when IterateStateReferences is called
	// with highestIndex < lowestIndex.
	ErrInvalidRange = errors.New("engine: highestIndex is less than lowestIndex")

	// ErrChainNotFound is returned by ForkStateReferences when the
	// destination ends up empty and the source chain's index is also
	// empty.
	ErrChainNotFound = errors.New("engine: chain not found")
)

const dbFileName = "index.ldb"
const txDirName = "tx"

// Options mirrors the document database options recognized at open (§6):
// Journal, CacheSize, Flush, ReadOnly.
type Options = kvindex.Options

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return kvindex.DefaultOptions()
}

// Engine is the storage engine facade. It owns a kvindex.DB, a
// blobstore.Store layered on it, a txstore.Store layered on a vfs.FS, and
// the block lock serializing the block-blob surface.
type Engine struct {
	db    *kvindex.DB
	blobs *blobstore.Store
	txs   *txstore.Store
	fs    vfs.FS
	lock  enginelock.BlockLock
	inMem bool

	// chainLocks holds one *sync.Mutex per ChainID, serializing
	// StoreStateReference's dedup-then-insert sequence per chain.
	chainLocks sync.Map
}

// Open creates or opens an on-disk Engine rooted at dir. dir is created if
// it does not already exist. The document database lives at
// <dir>/index.ldb; transactions live under <dir>/tx.
func Open(dir string, opts Options) (*Engine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("engine: create root %s: %w", dir, err)
	}

	db, err := kvindex.Open(filepath.Join(dir, dbFileName), opts)
	if err != nil {
		return nil, err
	}

	fsys, err := vfs.NewOSFS(filepath.Join(dir, txDirName))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.WithComponent("engine").Debug().Str("dir", dir).Msg("opened on-disk engine")

	return newEngine(db, fsys, false), nil
}

// OpenMemory creates an in-memory Engine: the transaction filesystem lives
// entirely in memory, and the document database is backed by a private
// temp file that Close removes.
func OpenMemory() (*Engine, error) {
	db, err := kvindex.OpenMemory()
	if err != nil {
		return nil, err
	}
	log.WithComponent("engine").Debug().Msg("opened in-memory engine")
	return newEngine(db, vfs.NewMemFS(), true), nil
}

func newEngine(db *kvindex.DB, fsys vfs.FS, inMem bool) *Engine {
	return &Engine{
		db:    db,
		blobs: blobstore.New(db),
		txs:   txstore.New(fsys),
		fs:    fsys,
		inMem: inMem,
	}
}

// Close releases the document database and, for an in-memory Engine, its
// backing temp file. The transaction filesystem has nothing to release
// beyond what the document database's Close already handles.
func (e *Engine) Close() error {
	return e.db.Close()
}

// LoadOptionsYAML reads Options from a YAML file, so a host process can
// express them as a file without the engine itself growing a CLI or
// network surface.
func LoadOptionsYAML(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("engine: read options file %s: %w", path, err)
	}
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("engine: parse options file %s: %w", path, err)
	}
	return opts, nil
}
