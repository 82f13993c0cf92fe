// Package metrics exposes the ledger's operational counters through the
// prometheus default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BlocksMined counts successful mining calls, genesis excluded.
	BlocksMined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gtrace_blocks_mined_total",
		Help: "Number of blocks mined onto the ledger.",
	})

	// MiningDuration observes wall time per mining call. Expect the
	// distribution to move by roughly 16x per difficulty step.
	MiningDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gtrace_mining_duration_seconds",
		Help:    "Wall time spent per proof-of-work mining call.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
	})

	// ChainHeight tracks the number of blocks in the chain, genesis included.
	ChainHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gtrace_chain_height",
		Help: "Current number of blocks in the ledger.",
	})

	// MempoolSize tracks the pending transactions awaiting inclusion.
	MempoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gtrace_mempool_size",
		Help: "Pending transactions awaiting the next mining call.",
	})

	// ValidationFailures counts chain validation walks that found at least
	// one broken invariant.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gtrace_chain_validation_failures_total",
		Help: "Chain validation walks that detected tampering.",
	})
)
