// Package compliance evaluates registered regulatory requirements against a
// slice of ledger transactions.
package compliance

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/inconshreveable/log15"
	"golang.org/x/sync/errgroup"

	"github.com/tracelink-network/gtrace/core/types"
)

// ErrEmptyRequirementID is returned when registering a requirement without
// an identifier.
var ErrEmptyRequirementID = errors.New("compliance: requirement identifier is empty")

// Rule keywords recognised by the built-in evaluator. A rule string matching
// none of them is vacuously satisfied.
const (
	RuleOriginRequired       = "origin_required"
	RuleVerificationRequired = "verification_required"
	RuleTimestampRequired    = "timestamp_required"
)

// Requirement is a registered compliance rule.
type Requirement struct {
	ID          string
	Description string
	// Rule is a free-form expression; the evaluator scans its lowercased
	// form for the known keywords.
	Rule string
}

// RequirementResult is the outcome of one requirement over a transaction
// slice. Offenders lists the identifiers of transactions that failed it, in
// slice order.
type RequirementResult struct {
	RequirementID string
	Description   string
	Passed        bool
	Offenders     []string
}

// Report is the outcome of a batch evaluation.
type Report struct {
	Results     []RequirementResult
	Passed      bool
	EvaluatedAt time.Time
}

// Validator holds the requirement registry and runs batch evaluations.
// Registration and evaluation may race; the registry is guarded.
type Validator struct {
	mu           sync.RWMutex
	requirements map[string]Requirement

	log log15.Logger
}

// NewValidator creates an empty registry.
func NewValidator() *Validator {
	return &Validator{
		requirements: make(map[string]Requirement),
		log:          log15.New("module", "compliance"),
	}
}

// Register adds or replaces a requirement.
func (v *Validator) Register(req Requirement) error {
	if strings.TrimSpace(req.ID) == "" {
		return ErrEmptyRequirementID
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.requirements[req.ID] = req
	return nil
}

// Requirements returns the registered requirements sorted by identifier.
func (v *Validator) Requirements() []Requirement {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Requirement, 0, len(v.requirements))
	for _, req := range v.requirements {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Evaluate runs every registered requirement over txs, one goroutine per
// requirement. The transaction slice is treated as an immutable snapshot;
// results come back sorted by requirement identifier.
func (v *Validator) Evaluate(ctx context.Context, txs types.Transactions) (*Report, error) {
	reqs := v.Requirements()
	results := make([]RequirementResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = evaluateRequirement(req, txs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Passed: true, EvaluatedAt: time.Now()}
	for _, r := range results {
		if !r.Passed {
			report.Passed = false
		}
	}
	v.log.Debug("Compliance evaluated", "requirements", len(reqs), "transactions", len(txs), "passed", report.Passed)
	return report, nil
}

func evaluateRequirement(req Requirement, txs types.Transactions) RequirementResult {
	res := RequirementResult{
		RequirementID: req.ID,
		Description:   req.Description,
		Passed:        true,
	}
	rule := strings.ToLower(req.Rule)
	for _, tx := range txs {
		if satisfies(rule, tx) {
			continue
		}
		res.Passed = false
		res.Offenders = append(res.Offenders, tx.ID())
	}
	return res
}

// satisfies checks every keyword present in the rule; a rule that names
// several keywords requires all of them.
func satisfies(rule string, tx *types.Transaction) bool {
	if strings.Contains(rule, RuleOriginRequired) {
		if strings.TrimSpace(tx.Data()[types.KeyOrigin]) == "" {
			return false
		}
	}
	if strings.Contains(rule, RuleVerificationRequired) {
		verified, err := strconv.ParseBool(tx.Data()[types.KeyVerified])
		if err != nil || !verified {
			return false
		}
	}
	if strings.Contains(rule, RuleTimestampRequired) {
		if tx.Time().IsZero() {
			return false
		}
	}
	// A rule naming none of the keywords falls through: vacuously satisfied.
	return true
}
