// Package verify implements the ledger-backed verification services:
// product authenticity confirmation and transaction round-trip verification.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inconshreveable/log15"

	"github.com/tracelink-network/gtrace/core"
)

// ErrEmptyProductID is returned for a product query that is empty after trim.
var ErrEmptyProductID = errors.New("verify: product identifier is empty")

// Status is the outcome state of an authenticity check.
type Status string

const (
	// StatusPending is the initial state while a check runs. It never
	// reaches a caller.
	StatusPending Status = "PENDING"

	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
)

// Result is the outcome of an authenticity check. Reasons preserve the order
// in which they were recorded.
type Result struct {
	ProductID string
	Authentic bool
	Status    Status
	Reasons   []string
}

// AuthenticityVerifier confirms or rejects a product from ledger facts alone:
// the product must be recorded, the chain must be intact, and every
// transaction in the product's projection must self-validate.
type AuthenticityVerifier struct {
	chain *core.BlockchainManager
	log   log15.Logger
}

// NewAuthenticityVerifier creates a verifier reading from chain.
func NewAuthenticityVerifier(chain *core.BlockchainManager) *AuthenticityVerifier {
	return &AuthenticityVerifier{
		chain: chain,
		log:   log15.New("module", "verify"),
	}
}

// VerifyProduct checks productID against the ledger. The returned result is
// always CONFIRMED or REJECTED; only an invalid argument yields an error.
func (v *AuthenticityVerifier) VerifyProduct(productID string) (*Result, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrEmptyProductID
	}
	res := &Result{ProductID: productID, Status: StatusPending}

	history := v.chain.ProductHistory(productID)
	if len(history) == 0 {
		res.Status = StatusRejected
		res.Reasons = append(res.Reasons, fmt.Sprintf("product %s not found in ledger", productID))
		return res, nil
	}
	if !v.chain.IsChainValid() {
		res.Status = StatusRejected
		res.Reasons = append(res.Reasons, "ledger integrity compromised")
		return res, nil
	}
	for _, tx := range history {
		if err := tx.Validate(); err != nil {
			res.Status = StatusRejected
			res.Reasons = append(res.Reasons, fmt.Sprintf("invalid transaction %s", tx.ID()))
		}
	}
	if res.Status == StatusRejected {
		return res, nil
	}

	res.Authentic = true
	res.Status = StatusConfirmed
	res.Reasons = append(res.Reasons, fmt.Sprintf("confirmed by %d valid transactions", len(history)))
	v.log.Debug("Product confirmed", "product", productID, "events", len(history))
	return res, nil
}
