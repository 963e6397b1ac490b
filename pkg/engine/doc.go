/*
Package engine is the public facade of ledgerstore: a stateful object
created against either an on-disk directory or an in-memory substrate,
composing kvindex, blobstore, txstore, and enginelock behind roughly
forty operations grouped by domain (chains, indices, transactions,
blocks, states, state-references, nonces, staging).

# Architecture

An Engine owns one kvindex.DB (the document database), one
blobstore.Store and one txstore.Store layered on it, and the block
lock that serializes the block-blob surface:

	┌───────────────────────── ENGINE ──────────────────────────┐
	│                                                             │
	│  ┌───────────────────────────────────────────┐            │
	│  │                Engine                       │            │
	│  │  - db:    *kvindex.DB  (index.ldb)          │            │
	│  │  - blobs: *blobstore.Store (on db)          │            │
	│  │  - txs:   *txstore.Store   (on fs)          │            │
	│  │  - fs:    vfs.FS        (tx/ or memfs)      │            │
	│  │  - lock:  enginelock.BlockLock              │            │
	│  │  - chainLocks: sync.Map[ChainID]*sync.Mutex │            │
	│  └──────────────────┬────────────────────────┘            │
	│                     │                                       │
	│   ┌─────────────────┼──────────────────┐                   │
	│   ▼                 ▼                  ▼                   │
	│ ┌────────┐    ┌───────────┐      ┌───────────┐             │
	│ │kvindex │    │ blobstore │      │  txstore  │             │
	│ │.DB     │    │  .Store   │      │  .Store    │             │
	│ │(bbolt) │    │ (on db)   │      │ (on vfs)   │             │
	│ └────────┘    └───────────┘      └───────────┘             │
	│                                                             │
	│  Per-chain buckets: index_<c>, stateref_<c>,                │
	│    stateref_addr_<c>, stateref_index_<c>, nonce_<c>         │
	│  Singleton buckets: canon, staged_txids                     │
	│  Blob namespaces:   block/<hash>, state/<hash>               │
	└─────────────────────────────────────────────────────────────┘

# Core Components

Engine:
  - One instance per storage location for the process lifetime
  - Never spawns goroutines of its own
  - Safely callable from multiple goroutines concurrently, subject to
    the documented concurrency limitations below

Chains (chains.go):
  - ListChainIds, DeleteChainId, GetCanonicalChainId, SetCanonicalChainId
  - DeleteChainId drops five per-chain buckets, each in its own bbolt
    transaction: atomic per-bucket, not atomic across the set

Indices (indexes.go):
  - Per-chain ordered list of block hashes (stored as hex strings),
    keyed by a 1-based auto-increment id

Transactions (transactions.go):
  - Thin pass-through to txstore.Store, content-addressed by TxID

Blocks (blocks.go):
  - PutBlock puts every contained transaction before the block body,
    so a block visible via IterateBlockHashes always has all of its
    transactions already stored
  - GetRawBlock takes the plain exclusive block lock for its whole
    duration rather than an upgradeable read lock

States (states.go):
  - Per-block state snapshots (gob-encoded StateMap) in the state/
    blob namespace, unconditional replace semantics

State references (staterefs.go):
  - StoreStateReference, IterateStateReferences, ForkStateReferences,
    ListAddresses
  - Primary collection plus two secondary indexes (by address, by
    block index) for range queries in either dimension

Nonces (nonces.go):
  - Per-chain per-address nonce counters

Staging (staging.go):
  - A single process-wide staged_txids set shared by all chains,
    deduplicated before the
    StagedTxsTotal metric is incremented

# Usage

Opening an on-disk engine:

	e, err := engine.Open("/var/lib/ledgerstore/chain-0", engine.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

Opening an in-memory engine (tests, ephemeral tooling):

	e, err := engine.OpenMemory()
	defer e.Close()

Chains:

	ids, err := e.ListChainIds()
	err = e.SetCanonicalChainId(chainID)
	canon, ok, err := e.GetCanonicalChainId()
	err = e.DeleteChainId(chainID)

Blocks and transactions:

	err = e.PutBlock(block)
	data, ok, err := e.GetRawBlock(hash)
	existed, err := e.DeleteBlock(hash)
	hashes, err := e.IterateBlockHashes()

State references:

	err = e.StoreStateReference(chain, []types.Address{addr}, blockHash, blockIndex)
	entries, err := e.IterateStateReferences(chain, addr, engine.NoHighestIndex, 0, 100)
	err = e.ForkStateReferences(srcChain, dstChain, branchIndex)

# Integration Points

This package integrates with:

  - pkg/kvindex for the document database buckets backing chains,
    indices, state references, and nonces
  - pkg/blobstore for content-addressed block and state-snapshot storage
  - pkg/txstore for content-addressed transaction storage over pkg/vfs
  - pkg/enginelock for the block lock serializing the block-blob surface
  - pkg/metrics for operation counters and timers
  - pkg/log for structured debug/warn logging on hot paths

# Design Patterns

Facade:
  - Engine exposes a flat, domain-grouped method set rather than
    requiring callers to reach into kvindex/blobstore/txstore directly

Per-collection atomicity, not joint atomicity:
  - DeleteChainId drops five buckets in five separate transactions by
    design, matching the documented per-collection durability contract

Per-chain locking:
  - A sync.Map of *sync.Mutex, one per ChainID, created lazily,
    serializes the racy dedup-then-insert and read-then-write
    sequences in StoreStateReference and ForkStateReferences

Type alias, not a wrapper type:
  - engine.Options = kvindex.Options, so a YAML-loaded kvindex.Options
    value can be passed to engine.Open without conversion

# Performance Characteristics

Read operations:
  - GetRawBlock, IterateStateReferences: O(log n) bbolt cursor seeks
  - ListChainIds, ListAddresses: O(n) full bucket or index scan

Write operations:
  - PutBlock: one blob Exists check (unlocked), one exclusive lock
    acquisition, a second Exists check, then N transaction puts and
    one block put
  - DeleteChainId: five sequential bbolt write transactions

Locking:
  - The block lock is a single sync.RWMutex guarding PutBlock,
    DeleteBlock, GetRawBlock, IterateBlockHashes, CountBlocks
  - Per-chain mutexes in chainLocks are independent of the block lock
    and of each other

# Troubleshooting

ErrInvalidRange from IterateStateReferences:
  - Cause: highestIndex was passed lower than lowestIndex
  - Fix: pass engine.NoHighestIndex for an unbounded upper end, or
    verify the caller didn't swap the two arguments

ErrChainNotFound from ForkStateReferences:
  - Cause: dst ended up with zero state-reference records and src's
    index collection is also empty
  - Fix: verify src has been populated via StoreStateReference or a
    prior fork before forking again

Orphaned secondary-index data after a crash mid-DeleteChainId:
  - Cause: the five per-chain buckets are not dropped jointly; a
    crash between drops can leave some dropped and others present
  - Fix: call DeleteChainId again; DropBucket on an already-absent
    bucket is a no-op

# Security

No authentication or authorization is performed in this package;
callers are expected to run the engine as a single trusted process
owning its storage directory. File permissions on the on-disk root
(0o755) and the document database/transaction files beneath it are
the only access boundary.

# See Also

  - pkg/kvindex for the document database this package builds on
  - pkg/blobstore for the block and state-snapshot blob surface
  - pkg/txstore for the transaction storage surface
  - pkg/enginelock for the block lock type
*/
package engine
