/*
Package kvindex implements the indexed-collection layer on top of
go.etcd.io/bbolt: named collections with auto-incrementing keys, secondary
indexes, and range queries.

# Architecture

A single embedded bbolt database backs every collection kvindex exposes.
Each named collection is one top-level bucket; a secondary index is a
sibling bucket mapping a composite sort key back to the primary key it
describes:

	┌────────────────────────── KVINDEX ────────────────────────┐
	│                                                             │
	│  ┌───────────────────────────────────────────┐            │
	│  │                  DB                          │            │
	│  │  - bolt: *bolt.DB                            │            │
	│  │  - path: on-disk file, or a removeOnClose    │            │
	│  │          temp file for OpenMemory             │            │
	│  └──────────────────┬────────────────────────┘            │
	│                     │                                       │
	│  ┌──────────────────▼────────────────────────┐            │
	│  │             Bucket Layer                     │            │
	│  │  EnsureBucket / Bucket / DropBucket /        │            │
	│  │  BucketNamesWithPrefix                       │            │
	│  └──────────────────┬────────────────────────┘            │
	│                     │                                       │
	│   ┌─────────────────┼───────────────────┐                  │
	│   ▼                 ▼                   ▼                  │
	│ ┌─────────┐  ┌───────────────┐   ┌──────────────┐          │
	│ │ Primary │  │  Secondary    │   │  Auto-ID      │          │
	│ │ bucket  │  │  index bucket │   │  (NextAutoID) │          │
	│ │(by key) │  │ (composite    │   │  via bucket's │          │
	│ │         │  │  sort key →   │   │  own          │          │
	│ │         │  │  primary key) │   │  NextSequence │          │
	│ └─────────┘  └───────────────┘   └──────────────┘          │
	│                                                             │
	│  Key ordering: bbolt orders keys byte-lexically, so every   │
	│  auto-ID and every blockIndex-prefixed secondary-index key  │
	│  is big-endian encoded (EncodeUint64) to sort numerically.  │
	└─────────────────────────────────────────────────────────────┘

# Core Components

DB:
  - Open wraps bolt.Open with a macOS exclusive-open workaround (shared
    locking on mmap'd files is unreliable under concurrent processes,
    so ReadOnly is forced off on darwin regardless of the caller's
    request)
  - OpenMemory backs a DB with a private os.CreateTemp file, since
    bbolt has no true in-memory mode; Close removes it
  - View/Update are thin pass-throughs to bolt.DB's transaction API

Bucket helpers (bucket.go):
  - EnsureBucket creates-if-absent; Bucket returns nil if absent (for
    read-only transactions where creation isn't available)
  - DropBucket deletes a bucket if present, reporting whether it existed
  - BucketNamesWithPrefix scans all top-level bucket names for a prefix,
    the mechanism ListChainIds uses to recover the chain-ID set from
    "index_"-prefixed bucket names without a separate registry
  - NextAutoID wraps a bucket's own NextSequence counter, returning both
    the raw id (starting at 1) and its big-endian-encoded key form
  - Count returns a bucket's entry count via bbolt's Stats().KeyN, which
    walks the bucket's pages

Options:
  - Mirrors the document-database options recognized at open: Journal,
    CacheSize, Flush, ReadOnly — not every field maps onto a bbolt knob
    one-to-one, and fields that don't are accepted and stored rather
    than silently dropped

# Usage

Opening a database:

	db, err := kvindex.Open("/var/lib/ledgerstore/chain-0/index.ldb", kvindex.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

Ensuring a collection and inserting with an auto-ID:

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := kvindex.EnsureBucket(tx, "index_"+chainID.String())
		if err != nil {
			return err
		}
		id, key, err := kvindex.NextAutoID(b)
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})

Scanning for collections by prefix:

	err = db.View(func(tx *bolt.Tx) error {
		names, err := kvindex.BucketNamesWithPrefix(tx, "index_")
		return err
	})

# Integration Points

This package integrates with:

  - pkg/engine, which ensures and queries per-chain buckets
    (index_<c>, stateref_<c>, stateref_addr_<c>, stateref_index_<c>,
    nonce_<c>) and the singleton canon/staged_txids buckets directly
    against a *kvindex.DB
  - pkg/blobstore, which layers its own single shared bucket on the
    same *kvindex.DB rather than opening a second database file
  - go.etcd.io/bbolt, the only storage engine kvindex wraps

# Design Patterns

Transaction-agnostic helpers:
  - Every exported helper takes a caller-supplied *bolt.Tx rather than
    owning its own transaction, so multi-step engine operations (fork
    copies, dedup-then-insert sequences) stay atomic within one bbolt
    transaction instead of kvindex imposing its own transaction
    boundaries

Composite keys over a nested bucket hierarchy:
  - Secondary indexes are flat sibling buckets with byte-concatenated
    composite keys (e.g. address || blockIndex || blockHash) rather
    than a tree of nested buckets, keeping range scans a single cursor
    walk

Big-endian numeric encoding:
  - All auto-IDs and numeric index prefixes use EncodeUint64/DecodeUint64
    so bbolt's native byte-lexical key order doubles as numeric order

# Performance Characteristics

Bucket operations:
  - EnsureBucket/Bucket: O(1) amortized, backed by bbolt's own bucket
    lookup
  - DropBucket: O(n) in the bucket's size, bbolt frees pages as part
    of the delete
  - BucketNamesWithPrefix: O(total top-level bucket count), since
    bbolt has no native prefix index over bucket names themselves

Auto-ID allocation:
  - NextAutoID: O(1), a single in-memory counter increment persisted
    with the enclosing transaction

Database size:
  - OpenMemory's temp-file backing means in-memory engines still incur
    real page-cache and disk I/O behavior identical to on-disk engines,
    by design — there is no separate in-memory code path to diverge
    from production behavior

# Troubleshooting

"database is locked" on Open:
  - Cause: another process already holds bbolt's exclusive file lock
  - Fix: ensure only one process opens a given database file at a time

Stale bucket after DropBucket:
  - Cause: DropBucket only removes the named bucket; sibling secondary
    indexes sharing the same logical entity must be dropped separately
  - Fix: callers that maintain several related buckets for one entity
    (as pkg/engine does for chains) must enumerate and drop every
    related bucket name themselves

# Security

No encryption or access control is implemented here; the backing file
is created with 0o600 permissions and relies entirely on filesystem
permissions for protection. Callers needing encryption at rest must
encrypt before Put and decrypt after Get at a higher layer.

# See Also

  - pkg/engine for the concrete bucket-naming scheme built on this package
  - pkg/blobstore for the namespaced blob layer sharing one *kvindex.DB
  - bbolt documentation: https://pkg.go.dev/go.etcd.io/bbolt
*/
package kvindex
