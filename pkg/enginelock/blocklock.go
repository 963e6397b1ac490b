package enginelock

import (
	"sync"

	"github.com/cuemby/ledgerstore/pkg/metrics"
)

// BlockLock is the block lock: one readers-writer lock guarding the
// block-blob surface. It must never be re-entered on the same goroutine.
type BlockLock struct {
	mu sync.RWMutex
}

// RLock acquires the shared side, used by IterateBlockHashes, CountBlocks,
// and the read phase GetRawBlock would otherwise take before upgrading.
func (l *BlockLock) RLock() {
	timer := metrics.NewTimer()
	l.mu.RLock()
	timer.ObserveDurationVec(metrics.BlockLockWaitSeconds, "read")
}

// RUnlock releases the shared side.
func (l *BlockLock) RUnlock() {
	l.mu.RUnlock()
}

// Lock acquires the exclusive side, used by PutBlock, DeleteBlock, and
// GetRawBlock's blob-download phase — a plain exclusive acquisition in
// place of the upgradeable-read-then-upgrade pattern, since this
// implementation's underlying blob store does not require a shared read
// phase before the download.
func (l *BlockLock) Lock() {
	timer := metrics.NewTimer()
	l.mu.Lock()
	timer.ObserveDurationVec(metrics.BlockLockWaitSeconds, "write")
}

// Unlock releases the exclusive side.
func (l *BlockLock) Unlock() {
	l.mu.Unlock()
}

// WithRLock runs fn holding the shared side.
func (l *BlockLock) WithRLock(fn func() error) error {
	l.RLock()
	defer l.RUnlock()
	return fn()
}

// WithLock runs fn holding the exclusive side.
func (l *BlockLock) WithLock(fn func() error) error {
	l.Lock()
	defer l.Unlock()
	return fn()
}
