// Package metrics exposes Prometheus collectors for storage engine operations.
//
// The engine never serves these itself — it has no network surface — so
// nothing here registers an HTTP handler. A host process that wants to
// expose them registers prometheus.DefaultRegisterer's collectors through
// its own mux.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BlobOpsTotal counts blob store operations by namespace and outcome.
	BlobOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerstore_blob_ops_total",
			Help: "Total number of blob store operations by namespace, op, and outcome",
		},
		[]string{"namespace", "op", "outcome"},
	)

	// TxOpsTotal counts transaction store operations by outcome.
	TxOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerstore_tx_ops_total",
			Help: "Total number of transaction store operations by op and outcome",
		},
		[]string{"op", "outcome"},
	)

	// CollectionOpsTotal counts indexed collection operations by collection name.
	CollectionOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerstore_collection_ops_total",
			Help: "Total number of indexed collection operations by collection and op",
		},
		[]string{"collection", "op"},
	)

	// BlockLockWaitSeconds measures time spent waiting on the block lock.
	BlockLockWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledgerstore_block_lock_wait_seconds",
			Help:    "Time spent waiting to acquire the block lock, by mode",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// DBSizeBytes reports the on-disk size of the index database.
	DBSizeBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledgerstore_db_size_bytes",
			Help: "Size in bytes of the index database file",
		},
	)

	// StagedTxsTotal reports the current number of staged transactions.
	StagedTxsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledgerstore_staged_txs_total",
			Help: "Current number of staged transactions",
		},
	)
)

func init() {
	prometheus.MustRegister(BlobOpsTotal)
	prometheus.MustRegister(TxOpsTotal)
	prometheus.MustRegister(CollectionOpsTotal)
	prometheus.MustRegister(BlockLockWaitSeconds)
	prometheus.MustRegister(DBSizeBytes)
	prometheus.MustRegister(StagedTxsTotal)
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
