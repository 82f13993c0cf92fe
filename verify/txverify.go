package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inconshreveable/log15"

	"github.com/tracelink-network/gtrace/core"
	"github.com/tracelink-network/gtrace/core/types"
)

// ErrNilTransaction is returned when a caller asks to verify nothing.
var ErrNilTransaction = errors.New("verify: nil transaction")

// VerificationResult is a message-tagged verification outcome.
type VerificationResult struct {
	TransactionID string
	Verified      bool
	Reason        string
}

// TransactionVerificationService compares a caller-held transaction against
// the ledger's copy. The comparison runs over the canonical rendering on both
// sides, so a collaborator store that truncated timestamp precision surfaces
// as an explicit mismatch rather than a spurious pass.
type TransactionVerificationService struct {
	chain *core.BlockchainManager
	log   log15.Logger
}

// NewTransactionVerificationService creates a service reading from chain.
func NewTransactionVerificationService(chain *core.BlockchainManager) *TransactionVerificationService {
	return &TransactionVerificationService{
		chain: chain,
		log:   log15.New("module", "verify"),
	}
}

// VerifyTransaction walks the ledger history for tx's identifier and compares
// identifier, type, timestamp and attribute map structurally.
func (s *TransactionVerificationService) VerifyTransaction(tx *types.Transaction) (*VerificationResult, error) {
	if tx == nil {
		return nil, ErrNilTransaction
	}
	res := &VerificationResult{TransactionID: tx.ID()}
	for _, ledgerTx := range s.chain.TransactionHistory() {
		if ledgerTx.ID() != tx.ID() {
			continue
		}
		if ledgerTx.Equal(tx) {
			res.Verified = true
			res.Reason = fmt.Sprintf("transaction %s matches the ledger copy", tx.ID())
		} else {
			res.Reason = fmt.Sprintf("transaction %s: data mismatch against the ledger copy", tx.ID())
		}
		return res, nil
	}
	res.Reason = fmt.Sprintf("transaction %s not found in ledger", tx.ID())
	return res, nil
}

// ValidateBlockchainIntegrity wraps the chain's validation walk into a
// message-tagged result.
func (s *TransactionVerificationService) ValidateBlockchainIntegrity() *VerificationResult {
	reasons := s.chain.ValidateChain()
	if len(reasons) == 0 {
		return &VerificationResult{Verified: true, Reason: "blockchain integrity intact"}
	}
	return &VerificationResult{
		Reason: "blockchain integrity compromised: " + strings.Join(reasons, "; "),
	}
}
