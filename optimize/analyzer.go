// Package optimize derives supply-chain recommendations from ledger
// statistics.
package optimize

import (
	"fmt"
	"sort"

	"github.com/inconshreveable/log15"

	"github.com/tracelink-network/gtrace/core/types"
)

// RecommendationType tags the class of a recommendation.
type RecommendationType string

const (
	TransitTimeOptimization  RecommendationType = "TRANSIT_TIME_OPTIMIZATION"
	VolumeBottleneck         RecommendationType = "VOLUME_BOTTLENECK"
	SupplierUnderutilization RecommendationType = "SUPPLIER_UNDERUTILIZATION"
)

// Analysis thresholds.
const (
	// transitMeanHoursThreshold triggers a transit recommendation when the
	// mean gap between consecutive product events exceeds it.
	transitMeanHoursThreshold = 48.0

	// bottleneckShare is the fraction of total volume above which a single
	// transaction type counts as a bottleneck.
	bottleneckShare = 0.60

	// underutilizationShare flags parties whose event count falls below
	// this fraction of the per-party mean.
	underutilizationShare = 0.50
)

// Recommendation is one derived suggestion. Suggestion and ExpectedImpact
// are always non-empty.
type Recommendation struct {
	Type           RecommendationType
	Suggestion     string
	ExpectedImpact string
}

// Analyzer computes recommendations over a caller-chosen transaction slice,
// typically the full ledger history. It holds no state of its own.
type Analyzer struct {
	log log15.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{log: log15.New("module", "optimize")}
}

// Analyze runs all three analyses over txs and returns the recommendations
// in a stable order: transit, volume, then per-party underutilization.
func (a *Analyzer) Analyze(txs types.Transactions) []Recommendation {
	var out []Recommendation
	if rec, ok := a.transitTime(txs); ok {
		out = append(out, rec)
	}
	if rec, ok := a.volumeBottleneck(txs); ok {
		out = append(out, rec)
	}
	out = append(out, a.supplierUnderutilization(txs)...)
	a.log.Debug("Analysis complete", "transactions", len(txs), "recommendations", len(out))
	return out
}

// transitTime averages, per product with at least two events, the hours
// between consecutive events; a mean over products above the threshold
// yields one recommendation.
func (a *Analyzer) transitTime(txs types.Transactions) (Recommendation, bool) {
	byProduct := make(map[string]types.Transactions)
	for _, tx := range txs {
		if id := tx.ProductID(); id != "" {
			byProduct[id] = append(byProduct[id], tx)
		}
	}
	var total float64
	var products int
	for _, events := range byProduct {
		if len(events) < 2 {
			continue
		}
		var gaps float64
		for i := 1; i < len(events); i++ {
			gaps += events[i].Time().Sub(events[i-1].Time()).Hours()
		}
		total += gaps / float64(len(events)-1)
		products++
	}
	if products == 0 {
		return Recommendation{}, false
	}
	mean := total / float64(products)
	if mean <= transitMeanHoursThreshold {
		return Recommendation{}, false
	}
	return Recommendation{
		Type: TransitTimeOptimization,
		Suggestion: fmt.Sprintf(
			"Products average %.1f hours between supply chain events; consolidate carrier handoffs on the slowest lanes",
			mean),
		ExpectedImpact: "30% reduction in average transit time",
	}, true
}

// volumeBottleneck flags a transaction type holding more than the bottleneck
// share of all transactions.
func (a *Analyzer) volumeBottleneck(txs types.Transactions) (Recommendation, bool) {
	if len(txs) == 0 {
		return Recommendation{}, false
	}
	counts := make(map[string]int)
	for _, tx := range txs {
		counts[tx.Type()]++
	}
	for _, kind := range []string{types.TxProductCreation, types.TxProductTransfer, types.TxProductVerification} {
		share := float64(counts[kind]) / float64(len(txs))
		if share > bottleneckShare {
			return Recommendation{
				Type: VolumeBottleneck,
				Suggestion: fmt.Sprintf(
					"%s events make up %.0f%% of ledger volume; spread processing capacity across stages",
					kind, share*100),
				ExpectedImpact: "Reduced queueing at the dominant stage",
			}, true
		}
	}
	return Recommendation{}, false
}

// supplierUnderutilization flags parties whose event count is below half the
// per-party mean, provided at least two distinct parties appear.
func (a *Analyzer) supplierUnderutilization(txs types.Transactions) []Recommendation {
	counts := make(map[string]int)
	for _, tx := range txs {
		if party := tx.Data()[types.KeyFromParty]; party != "" {
			counts[party]++
		}
	}
	if len(counts) < 2 {
		return nil
	}
	var total int
	for _, n := range counts {
		total += n
	}
	mean := float64(total) / float64(len(counts))

	parties := make([]string, 0, len(counts))
	for party := range counts {
		parties = append(parties, party)
	}
	sort.Strings(parties)

	var out []Recommendation
	for _, party := range parties {
		if float64(counts[party]) >= underutilizationShare*mean {
			continue
		}
		out = append(out, Recommendation{
			Type: SupplierUnderutilization,
			Suggestion: fmt.Sprintf(
				"Party %s originated %d of %d transfer events, well below the %.1f per-party mean; rebalance allocations",
				party, counts[party], total, mean),
			ExpectedImpact: "More even supplier utilisation and reduced single-source risk",
		})
	}
	return out
}
