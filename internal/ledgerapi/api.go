// Package ledgerapi is the service layer over the ledger core: it stages and
// validates transactions, converts structured results into user-facing
// messages and enforces the argument contracts of the public queries.
package ledgerapi

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inconshreveable/log15"

	"github.com/tracelink-network/gtrace/compliance"
	"github.com/tracelink-network/gtrace/core"
	"github.com/tracelink-network/gtrace/core/types"
	"github.com/tracelink-network/gtrace/optimize"
	"github.com/tracelink-network/gtrace/session"
	"github.com/tracelink-network/gtrace/trace"
	"github.com/tracelink-network/gtrace/verify"
)

// Service wires the ledger core and the read services behind one staging
// surface. It owns no ledger state of its own.
type Service struct {
	chain        *core.BlockchainManager
	authenticity *verify.AuthenticityVerifier
	txverify     *verify.TransactionVerificationService
	trace        *trace.Service
	compliance   *compliance.Validator
	analyzer     *optimize.Analyzer
	auth         *session.Authenticator

	log log15.Logger
}

// NewService assembles the service layer over chain.
func NewService(chain *core.BlockchainManager, auth *session.Authenticator) *Service {
	return &Service{
		chain:        chain,
		authenticity: verify.NewAuthenticityVerifier(chain),
		txverify:     verify.NewTransactionVerificationService(chain),
		trace:        trace.NewService(chain),
		compliance:   compliance.NewValidator(),
		analyzer:     optimize.NewAnalyzer(),
		auth:         auth,
		log:          log15.New("module", "ledgerapi"),
	}
}

// Compliance exposes the requirement registry for registration.
func (s *Service) Compliance() *compliance.Validator { return s.compliance }

// NewTransactionID allocates an identifier for producers that do not supply
// their own.
func NewTransactionID() string {
	return "TX-" + uuid.New().String()
}

// SubmitTransaction validates tx and stages it into the mempool. Validation
// failures surface as InvalidTransaction with the field-level message.
func (s *Service) SubmitTransaction(tx *types.Transaction) error {
	if tx == nil {
		return newError(codeInvalidArgument, "transaction must not be null")
	}
	if err := tx.Validate(); err != nil {
		s.log.Debug("Transaction rejected at staging", "id", tx.ID(), "err", err)
		return newError(codeInvalidTransaction, "invalid transaction: %v", err)
	}
	if err := s.chain.AddTransaction(tx); err != nil {
		return newError(codeServiceUnavailable, "ledger unavailable: %v", err)
	}
	return nil
}

// MineBlock mines the pending transactions into a block.
func (s *Service) MineBlock(ctx context.Context) (*types.Block, error) {
	block, err := s.chain.MinePendingTransactions(ctx)
	if err != nil {
		if errors.Is(err, core.ErrMiningAborted) {
			return nil, newError(codeServiceUnavailable, "mining was cancelled before completion")
		}
		return nil, newError(codeServiceUnavailable, "mining failed: %v", err)
	}
	return block, nil
}

// TransactionHistory returns the full ledger history.
func (s *Service) TransactionHistory() types.Transactions {
	return s.chain.TransactionHistory()
}

// ProductHistory returns the traceability projection for productID.
func (s *Service) ProductHistory(productID string) (types.Transactions, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, newError(codeInvalidArgument, "product identifier must not be empty")
	}
	history, err := s.trace.ProductHistory(productID)
	if err != nil {
		return nil, newError(codeInvalidArgument, "%v", err)
	}
	return history, nil
}

// TraceReport generates the traceability report for productID.
func (s *Service) TraceReport(productID string) (*trace.Report, error) {
	report, err := s.trace.GenerateReport(productID)
	if err != nil {
		return nil, newError(codeInvalidArgument, "%v", err)
	}
	return report, nil
}

// VerifyAuthenticity runs the product authenticity check.
func (s *Service) VerifyAuthenticity(productID string) (*verify.Result, error) {
	res, err := s.authenticity.VerifyProduct(productID)
	if err != nil {
		return nil, newError(codeInvalidArgument, "%v", err)
	}
	return res, nil
}

// VerifyTransaction runs the round-trip comparison of tx against the ledger.
func (s *Service) VerifyTransaction(tx *types.Transaction) (*verify.VerificationResult, error) {
	res, err := s.txverify.VerifyTransaction(tx)
	if err != nil {
		return nil, newError(codeInvalidArgument, "%v", err)
	}
	return res, nil
}

// CheckIntegrity validates the chain and converts a failure into a
// ChainValidation error naming the specific broken invariants.
func (s *Service) CheckIntegrity() error {
	reasons := s.chain.ValidateChain()
	if len(reasons) == 0 {
		return nil
	}
	return newError(codeChainValidation, "ledger integrity compromised: %s", strings.Join(reasons, "; "))
}

// EvaluateCompliance runs the registered requirements over the full history.
func (s *Service) EvaluateCompliance(ctx context.Context) (*compliance.Report, error) {
	report, err := s.compliance.Evaluate(ctx, s.chain.TransactionHistory())
	if err != nil {
		return nil, newError(codeServiceUnavailable, "compliance evaluation failed: %v", err)
	}
	return report, nil
}

// Recommendations analyzes the full history.
func (s *Service) Recommendations() []optimize.Recommendation {
	return s.analyzer.Analyze(s.chain.TransactionHistory())
}

// Login authenticates and returns a session identifier. All credential
// failures surface uniformly.
func (s *Service) Login(username, password string) (string, error) {
	if s.auth == nil {
		return "", newError(codeServiceUnavailable, "authentication is not configured")
	}
	id, err := s.auth.Login(username, password)
	if err != nil {
		return "", newError(codeAuthenticationFailure, "invalid credentials")
	}
	return id, nil
}
