package trace

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/tracelink-network/gtrace/core"
	"github.com/tracelink-network/gtrace/core/types"
	"github.com/tracelink-network/gtrace/params"
)

func newLedger(t *testing.T) *core.BlockchainManager {
	t.Helper()
	bm, err := core.NewBlockchainManager(params.TestDifficulty)
	if err != nil {
		t.Fatalf("NewBlockchainManager: %v", err)
	}
	return bm
}

func mine(t *testing.T, bm *core.BlockchainManager) {
	t.Helper()
	if _, err := bm.MinePendingTransactions(context.Background()); err != nil {
		t.Fatalf("mine: %v", err)
	}
}

func submitCreation(t *testing.T, bm *core.BlockchainManager) {
	t.Helper()
	bm.AddTransaction(types.NewTransaction("TX1", types.ProductCreation{
		SupplierID: "S", ProductID: "P", ProductName: "Coffee", Origin: "Colombia",
	}))
	mine(t, bm)
}

func submitTransfer(t *testing.T, bm *core.BlockchainManager, id, toLocation string, status types.ProductStatus) {
	t.Helper()
	bm.AddTransaction(types.NewTransaction(id, types.ProductTransfer{
		FromParty: "S", ToParty: "R", ProductID: "P",
		FromLocation: "Colombia", ToLocation: toLocation, NewStatus: status,
	}))
	mine(t, bm)
}

func TestGenerateReportCreateAndTransfer(t *testing.T) {
	bm := newLedger(t)
	submitCreation(t, bm)
	submitTransfer(t, bm, "TX2", "Warehouse", types.StatusInTransit)

	s := NewService(bm)
	report, err := s.GenerateReport("P")
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if !report.Complete {
		t.Fatalf("report incomplete, reasons: %v", report.Reasons)
	}
	if report.Origin != "Colombia" || report.CurrentLocation != "Warehouse" || report.CurrentStatus != types.StatusInTransit {
		t.Fatalf("report mismatch:\n%s", spew.Sdump(report))
	}
	if len(report.Events) != 2 || report.Events[0].ID() != "TX1" || report.Events[1].ID() != "TX2" {
		t.Fatal("report events not in chain order")
	}
}

func TestGenerateReportCreationOnlyFallsBack(t *testing.T) {
	bm := newLedger(t)
	submitCreation(t, bm)

	report, err := NewService(bm).GenerateReport("P")
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if !report.Complete {
		t.Fatalf("report incomplete, reasons: %v", report.Reasons)
	}
	if report.CurrentLocation != "Colombia" || report.CurrentStatus != types.StatusCreated {
		t.Fatalf("fallback pair = (%q, %q), want (Colombia, CREATED)", report.CurrentLocation, report.CurrentStatus)
	}
}

func TestGenerateReportNoHistory(t *testing.T) {
	report, err := NewService(newLedger(t)).GenerateReport("GHOST")
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.Complete {
		t.Fatal("empty projection produced a complete report")
	}
	if len(report.Reasons) != 1 || report.Reasons[0] != ReasonNoHistory {
		t.Fatalf("reasons = %v, want [%s]", report.Reasons, ReasonNoHistory)
	}
}

func TestGenerateReportTransferWithoutCreation(t *testing.T) {
	bm := newLedger(t)
	submitTransfer(t, bm, "TX9", "Depot", types.StatusDelivered)

	report, err := NewService(bm).GenerateReport("P")
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.Complete {
		t.Fatal("report should be incomplete without an origin")
	}
	if len(report.Reasons) != 1 || report.Reasons[0] != ReasonOriginUnknown {
		t.Fatalf("reasons = %v, want [%s]", report.Reasons, ReasonOriginUnknown)
	}
	// The transfer still yields location and status.
	if report.CurrentLocation != "Depot" || report.CurrentStatus != types.StatusDelivered {
		t.Fatalf("report = %+v", report)
	}
}

func TestReportCacheInvalidatedByMining(t *testing.T) {
	bm := newLedger(t)
	submitCreation(t, bm)

	s := NewService(bm)
	before, err := s.GenerateReport("P")
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if before.CurrentStatus != types.StatusCreated {
		t.Fatalf("initial status = %q", before.CurrentStatus)
	}

	submitTransfer(t, bm, "TX2", "Warehouse", types.StatusDelivered)
	after, err := s.GenerateReport("P")
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if after.CurrentStatus != types.StatusDelivered || after.CurrentLocation != "Warehouse" {
		t.Fatalf("stale report served after mining: %+v", after)
	}
}

func TestGenerateReportDefensiveCopy(t *testing.T) {
	bm := newLedger(t)
	submitCreation(t, bm)

	s := NewService(bm)
	first, _ := s.GenerateReport("P")
	first.Events[0] = nil
	first.Reasons = append(first.Reasons, "junk")

	second, _ := s.GenerateReport("P")
	if second.Events[0] == nil || len(second.Reasons) != 0 {
		t.Fatal("cached report aliased into caller's copy")
	}
}

func TestEmptyProductArgument(t *testing.T) {
	s := NewService(newLedger(t))
	if _, err := s.ProductHistory(" "); !errors.Is(err, ErrEmptyProductID) {
		t.Fatalf("ProductHistory(blank) = %v", err)
	}
	if _, err := s.GenerateReport(""); !errors.Is(err, ErrEmptyProductID) {
		t.Fatalf("GenerateReport(empty) = %v", err)
	}
}
