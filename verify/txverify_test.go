package verify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tracelink-network/gtrace/core"
	"github.com/tracelink-network/gtrace/core/types"
	"github.com/tracelink-network/gtrace/params"
)

// A mined transaction round-trips positive; an altered copy reports a
// data mismatch; an unknown identifier reports not found.
func TestVerifyTransactionRoundTrip(t *testing.T) {
	bm, err := core.NewBlockchainManager(params.TestDifficulty)
	if err != nil {
		t.Fatalf("NewBlockchainManager: %v", err)
	}
	when := time.Now()
	payload := types.ProductCreation{
		SupplierID: "S", ProductID: "P", ProductName: "Coffee", Origin: "Colombia",
	}
	mined := types.NewTransactionAt("TX1", when, payload)
	bm.AddTransaction(mined)
	if _, err := bm.MinePendingTransactions(context.Background()); err != nil {
		t.Fatalf("mine: %v", err)
	}
	s := NewTransactionVerificationService(bm)

	t.Run("exact copy verifies", func(t *testing.T) {
		res, err := s.VerifyTransaction(types.NewTransactionAt("TX1", when, payload))
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if !res.Verified {
			t.Fatalf("exact copy rejected: %s", res.Reason)
		}
	})

	t.Run("altered field mismatches", func(t *testing.T) {
		altered := payload
		altered.Origin = "Brazil"
		res, err := s.VerifyTransaction(types.NewTransactionAt("TX1", when, altered))
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if res.Verified || !strings.Contains(res.Reason, "data mismatch") {
			t.Fatalf("altered copy: verified=%v reason=%q", res.Verified, res.Reason)
		}
	})

	t.Run("altered timestamp mismatches", func(t *testing.T) {
		res, err := s.VerifyTransaction(types.NewTransactionAt("TX1", when.Add(time.Millisecond), payload))
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if res.Verified || !strings.Contains(res.Reason, "data mismatch") {
			t.Fatalf("altered timestamp: verified=%v reason=%q", res.Verified, res.Reason)
		}
	})

	t.Run("unknown identifier not found", func(t *testing.T) {
		res, err := s.VerifyTransaction(types.NewTransactionAt("TX999", when, payload))
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if res.Verified || !strings.Contains(res.Reason, "not found") {
			t.Fatalf("unknown id: verified=%v reason=%q", res.Verified, res.Reason)
		}
	})

	t.Run("nil transaction", func(t *testing.T) {
		if _, err := s.VerifyTransaction(nil); !errors.Is(err, ErrNilTransaction) {
			t.Fatalf("VerifyTransaction(nil) = %v, want ErrNilTransaction", err)
		}
	})
}

func TestValidateBlockchainIntegrity(t *testing.T) {
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
	s := NewTransactionVerificationService(bm)

	if res := s.ValidateBlockchainIntegrity(); !res.Verified || !strings.Contains(res.Reason, "intact") {
		t.Fatalf("intact chain: %+v", res)
	}
	bm.Chain()[1].SetNonce(12345)
	if res := s.ValidateBlockchainIntegrity(); res.Verified || !strings.Contains(res.Reason, "compromised") {
		t.Fatalf("tampered chain: %+v", res)
	}
}
