/*
Package blobstore implements the content-addressed blob store: a
namespaced key-value surface over arbitrary-length binary values, backed
by a single shared bbolt bucket keyed by "<namespace>/<hash>".

# Architecture

Every namespace shares one bucket; the namespace is folded into the key
rather than into a separate bucket per namespace, so adding a namespace
never requires a schema change:

	┌─────────────────────── BLOBSTORE ─────────────────────────┐
	│                                                             │
	│  ┌───────────────────────────────────────────┐            │
	│  │                 Store                        │            │
	│  │  - db: *kvindex.DB (shared with engine)      │            │
	│  └──────────────────┬────────────────────────┘            │
	│                     │                                       │
	│  ┌──────────────────▼────────────────────────┐            │
	│  │           bucket "blobs"                     │            │
	│  │  ┌────────────────────────────┐             │            │
	│  │  │ block/<hexHash> -> bytes    │  put: first- │            │
	│  │  │                             │  writer-wins │            │
	│  │  ├────────────────────────────┤             │            │
	│  │  │ state/<hexHash> -> bytes    │  put: Replace│            │
	│  │  │                             │  (overwrite) │             │
	│  │  └────────────────────────────┘             │            │
	│  └─────────────────────────────────────────────┘            │
	└─────────────────────────────────────────────────────────────┘

# Core Components

Store:
  - Wraps a *kvindex.DB; does not own or open its own database file
  - Every operation runs inside one bbolt transaction via db.View/db.Update

Put:
  - First-writer-wins: if the key already exists, returns success
    without rewriting or re-validating the supplied bytes
  - Used by the block namespace, where re-putting identical content
    from a concurrent writer must be a harmless no-op

Replace:
  - Unconditional overwrite, used by the state namespace, where a
    recomputed snapshot must be able to replace a stale one

Get / Exists / Delete / List / Count:
  - Get and Exists both tolerate a missing "blobs" bucket by returning
    a zero value rather than an error, since an empty store has
    created no buckets yet
  - List performs a single cursor seek-and-scan over the
    "<namespace>/" key prefix, then sorts the trimmed hash suffixes
  - Count is List plus a length, not a separate bbolt stat, since the
    shared bucket's Stats().KeyN would count every namespace together

# Usage

	blobs := blobstore.New(db)

	err := blobs.Put("block", hash.String(), blockBytes)       // no-op if present
	err  = blobs.Replace("state", hash.String(), snapshotBytes) // always overwrites

	data, ok, err := blobs.Get("block", hash.String())
	exists, err   := blobs.Exists("block", hash.String())
	existed, err  := blobs.Delete("block", hash.String())

	hashes, err := blobs.List("block")
	count, err  := blobs.Count("block")

# Integration Points

This package integrates with:

  - pkg/kvindex, whose EnsureBucket/Bucket helpers back every operation
  - pkg/engine, which uses "block" and "state" as its two namespaces
    and relies on Put's first-writer-wins rule for PutBlock and on
    Replace's overwrite rule for state snapshots
  - pkg/metrics, incremented per namespace/operation/outcome
  - pkg/log, a debug line on the no-op path of Put

# Design Patterns

Namespace folded into the key, not the bucket:
  - One bucket, many logical namespaces, distinguished only by a
    "<namespace>/" key prefix — avoids a bucket-creation step (and a
    bucket-enumeration step in ListChainIds-style callers) for every
    new namespace a future caller introduces

Idempotent put vs. unconditional replace as two distinct methods:
  - Rather than one Put with a "force" flag, the two call sites
    (content-addressed blocks vs. recomputable state snapshots) get
    two differently-named methods whose names state the guarantee

Byte-copy on read:
  - Get copies the bbolt value into a fresh slice before returning,
    since bbolt's returned byte slices are only valid for the life of
    the transaction

# Performance Characteristics

Put / Replace / Delete:
  - O(log n) bbolt B+tree operation plus a full-transaction commit;
    Put additionally pays one Get before the conditional Put

Get / Exists:
  - O(log n) bbolt lookup inside a read-only transaction

List / Count:
  - O(k) in the number of keys under the namespace prefix, via a
    single cursor seek rather than a full bucket scan

Shared bucket contention:
  - Every namespace shares one bucket, so bbolt's single-writer model
    serializes writes across namespaces, not just within one; this is
    acceptable at the throughput block and state-snapshot writes are
    expected to run at

# Troubleshooting

Get/Exists return zero values immediately after Open:
  - Cause: the "blobs" bucket is created lazily on first Put/Replace/
    Delete, not at Store construction
  - This is expected, not an error condition

Put appears to silently ignore new bytes for an existing hash:
  - Cause: first-writer-wins is by design for content-addressed data;
    if two payloads hash to the same key, they are expected to be
    byte-identical already
  - Fix: use Replace if the call site genuinely needs unconditional
    overwrite semantics

# Security

No encryption is performed; values are stored exactly as supplied.
Content addressing (the hash in the key) is not verified against the
data by this package — callers are responsible for supplying a hash
that actually matches the bytes being stored.

# See Also

  - pkg/kvindex for the bucket primitives this package is built on
  - pkg/engine for the block/state namespace usage
  - pkg/txstore for the analogous content-addressed surface over a
    filesystem instead of bbolt
*/
package blobstore
