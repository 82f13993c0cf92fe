// Package trace builds per-product traceability projections and reports from
// the ledger.
package trace

import (
	"errors"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/inconshreveable/log15"

	"github.com/tracelink-network/gtrace/core"
	"github.com/tracelink-network/gtrace/core/types"
	"github.com/tracelink-network/gtrace/params"
)

// ErrEmptyProductID is returned for a product query that is empty after trim.
var ErrEmptyProductID = errors.New("trace: product identifier is empty")

// Report reason strings for the completeness flags.
const (
	ReasonNoHistory       = "no history"
	ReasonOriginUnknown   = "origin unknown"
	ReasonLocationUnknown = "current location unknown"
	ReasonStatusUnknown   = "current status unknown"
)

// Report is the chronological projection of a product's ledger events with
// the derived origin, location and status. A report missing any derived
// field is flagged incomplete, one named reason per missing field.
type Report struct {
	ProductID       string
	Origin          string
	CurrentLocation string
	CurrentStatus   types.ProductStatus
	Events          types.Transactions
	Complete        bool
	Reasons         []string
	GeneratedAt     time.Time
}

// reportKey scopes a cached report to the chain height it was derived from;
// any mining call moves the height and misses the cache.
type reportKey struct {
	productID string
	height    uint64
}

// Service answers traceability queries over the chain. Generated reports are
// cached per (product, chain height); the projection itself is always a
// derived value, never stored.
type Service struct {
	chain *core.BlockchainManager
	cache *lru.Cache
	log   log15.Logger
}

// NewService creates a traceability service with the default cache size.
func NewService(chain *core.BlockchainManager) *Service {
	return NewServiceWithCacheSize(chain, params.DefaultLedgerConfig.ReportCacheSize)
}

// NewServiceWithCacheSize creates a traceability service with a bounded
// report cache.
func NewServiceWithCacheSize(chain *core.BlockchainManager, cacheSize int) *Service {
	cache, err := lru.New(cacheSize)
	if err != nil {
		// Only reachable with a non-positive size, which Sanitize rejects
		// upstream.
		panic(err)
	}
	return &Service{
		chain: chain,
		cache: cache,
		log:   log15.New("module", "trace"),
	}
}

// ProductHistory returns the traceability projection for productID in chain
// order.
func (s *Service) ProductHistory(productID string) (types.Transactions, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrEmptyProductID
	}
	return s.chain.ProductHistory(productID), nil
}

// GenerateReport derives the traceability report for productID. Origin comes
// from the first creation event; current location and status come from the
// most recent transfer, falling back to the origin and CREATED when the
// product has never moved.
func (s *Service) GenerateReport(productID string) (*Report, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrEmptyProductID
	}
	key := reportKey{productID: productID, height: s.chain.Height()}
	if cached, ok := s.cache.Get(key); ok {
		return copyReport(cached.(*Report)), nil
	}

	report := s.buildReport(productID)
	s.cache.Add(key, report)
	return copyReport(report), nil
}

func (s *Service) buildReport(productID string) *Report {
	report := &Report{
		ProductID:   productID,
		GeneratedAt: time.Now(),
	}
	history := s.chain.ProductHistory(productID)
	if len(history) == 0 {
		report.Reasons = append(report.Reasons, ReasonNoHistory)
		return report
	}
	report.Events = history

	var lastTransfer *types.Transaction
	for _, tx := range history {
		switch tx.Type() {
		case types.TxProductCreation:
			if report.Origin == "" {
				report.Origin = tx.Data()[types.KeyOrigin]
			}
		case types.TxProductTransfer:
			lastTransfer = tx
		}
	}
	if lastTransfer != nil {
		data := lastTransfer.Data()
		report.CurrentLocation = data[types.KeyToLocation]
		report.CurrentStatus = types.ProductStatus(data[types.KeyNewStatus])
	} else if report.Origin != "" {
		report.CurrentLocation = report.Origin
		report.CurrentStatus = types.StatusCreated
	}

	if report.Origin == "" {
		report.Reasons = append(report.Reasons, ReasonOriginUnknown)
	}
	if report.CurrentLocation == "" {
		report.Reasons = append(report.Reasons, ReasonLocationUnknown)
	}
	if report.CurrentStatus == "" {
		report.Reasons = append(report.Reasons, ReasonStatusUnknown)
	}
	report.Complete = len(report.Reasons) == 0
	s.log.Debug("Report generated", "product", productID, "events", len(history), "complete", report.Complete)
	return report
}

// copyReport keeps cached reports isolated from callers.
func copyReport(r *Report) *Report {
	out := *r
	out.Events = r.Events.Copy()
	out.Reasons = append([]string(nil), r.Reasons...)
	return &out
}
