package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tracelink-network/gtrace/core"
	"github.com/tracelink-network/gtrace/core/types"
	"github.com/tracelink-network/gtrace/params"
)

func newLedgerWithProduct(t *testing.T) *core.BlockchainManager {
	t.Helper()
	bm, err := core.NewBlockchainManager(params.TestDifficulty)
	if err != nil {
		t.Fatalf("NewBlockchainManager: %v", err)
	}
	bm.AddTransaction(types.NewTransaction("TX1", types.ProductCreation{
		SupplierID: "S", ProductID: "P", ProductName: "Coffee", Origin: "Colombia",
	}))
	if _, err := bm.MinePendingTransactions(context.Background()); err != nil {
		t.Fatalf("mine: %v", err)
	}
	bm.AddTransaction(types.NewTransaction("TX2", types.ProductTransfer{
		FromParty: "S", ToParty: "R", ProductID: "P",
		FromLocation: "Colombia", ToLocation: "Warehouse", NewStatus: types.StatusInTransit,
	}))
	if _, err := bm.MinePendingTransactions(context.Background()); err != nil {
		t.Fatalf("mine: %v", err)
	}
	return bm
}

func TestVerifyProductConfirmed(t *testing.T) {
	v := NewAuthenticityVerifier(newLedgerWithProduct(t))
	res, err := v.VerifyProduct("P")
	if err != nil {
		t.Fatalf("VerifyProduct: %v", err)
	}
	if !res.Authentic || res.Status != StatusConfirmed {
		t.Fatalf("result = %+v, want confirmed", res)
	}
	if len(res.Reasons) != 1 || !strings.Contains(res.Reasons[0], "2 valid transactions") {
		t.Fatalf("reasons = %v, want mention of 2 valid transactions", res.Reasons)
	}
}

func TestVerifyProductUnknownRejected(t *testing.T) {
	v := NewAuthenticityVerifier(newLedgerWithProduct(t))
	res, err := v.VerifyProduct("Z")
	if err != nil {
		t.Fatalf("VerifyProduct: %v", err)
	}
	if res.Authentic || res.Status != StatusRejected {
		t.Fatalf("result = %+v, want rejected", res)
	}
	if len(res.Reasons) == 0 || !strings.Contains(res.Reasons[0], "not found") {
		t.Fatalf("reasons = %v, want mention of not found", res.Reasons)
	}
}

func TestVerifyProductEmptyArgument(t *testing.T) {
	v := NewAuthenticityVerifier(newLedgerWithProduct(t))
	if _, err := v.VerifyProduct("   "); !errors.Is(err, ErrEmptyProductID) {
		t.Fatalf("VerifyProduct(blank) = %v, want ErrEmptyProductID", err)
	}
}

func TestVerifyProductTamperedLedgerRejected(t *testing.T) {
	bm := newLedgerWithProduct(t)
	bm.Chain()[1].SetHash("CORRUPTED_HASH")

	v := NewAuthenticityVerifier(bm)
	res, err := v.VerifyProduct("P")
	if err != nil {
		t.Fatalf("VerifyProduct: %v", err)
	}
	if res.Authentic || res.Status != StatusRejected {
		t.Fatalf("result = %+v, want rejected", res)
	}
	if !strings.Contains(strings.Join(res.Reasons, " "), "integrity compromised") {
		t.Fatalf("reasons = %v, want integrity compromised", res.Reasons)
	}
}

func TestStatusNeverPending(t *testing.T) {
	v := NewAuthenticityVerifier(newLedgerWithProduct(t))
	for _, id := range []string{"P", "Z"} {
		res, err := v.VerifyProduct(id)
		if err != nil {
			t.Fatalf("VerifyProduct(%s): %v", id, err)
		}
		if res.Status == StatusPending {
			t.Fatalf("PENDING leaked to caller for product %s", id)
		}
	}
}
