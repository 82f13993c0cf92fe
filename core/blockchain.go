// Copyright 2024 The gtrace Authors
// This file is part of the gtrace library.
//
// The gtrace library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gtrace library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gtrace library. If not, see <http://www.gnu.org/licenses/>.

// Package core implements the trace ledger itself: the authoritative
// in-memory chain, the mempool of pending transactions, proof-of-work mining
// and the cryptographic validation walk.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/tracelink-network/gtrace/core/types"
	"github.com/tracelink-network/gtrace/crypto"
	"github.com/tracelink-network/gtrace/metrics"
	"github.com/tracelink-network/gtrace/params"
)

var (
	ErrNilTransaction = errors.New("core: nil transaction")

	// ErrMiningAborted is re-exported so callers need not import types to
	// detect a cancelled mining call.
	ErrMiningAborted = types.ErrMiningAborted
)

// BlockchainManager owns the chain sequence and the mempool. It is the single
// shared mutable resource of the process: a multi-request service layer sits
// above it, so every mutation and every read goes through the manager's lock.
//
// Only AddTransaction and MinePendingTransactions mutate state. All exported
// views are defensive copies; callers cannot reshape the chain or the mempool
// through a returned slice.
type BlockchainManager struct {
	mu         sync.RWMutex
	chain      []*types.Block
	pending    types.Transactions
	difficulty int

	log log15.Logger
}

// NewBlockchainManager creates a ledger with its genesis block appended. The
// genesis block has index 0, the "0" previous-hash sentinel and an empty
// transaction list; it satisfies the hash invariant but is exempt from the
// difficulty prefix.
func NewBlockchainManager(difficulty int) (*BlockchainManager, error) {
	if difficulty < 0 {
		return nil, fmt.Errorf("core: invalid difficulty %d", difficulty)
	}
	bm := &BlockchainManager{
		difficulty: difficulty,
		log:        log15.New("module", "core"),
	}
	genesis := types.NewBlock(0, nil, params.GenesisPreviousHash)
	bm.chain = append(bm.chain, genesis)
	metrics.ChainHeight.Set(float64(len(bm.chain)))
	bm.log.Info("Ledger initialised", "difficulty", difficulty, "genesis", genesis.Hash())
	return bm, nil
}

// Difficulty returns the configured mining difficulty.
func (bm *BlockchainManager) Difficulty() int { return bm.difficulty }

// AddTransaction appends tx to the mempool. Any transaction is accepted;
// validation is deferred to the staging service layer and to mining.
// Submitting two transactions with equal identifiers lands both.
func (bm *BlockchainManager) AddTransaction(tx *types.Transaction) error {
	if tx == nil {
		return ErrNilTransaction
	}
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.pending = append(bm.pending, tx)
	metrics.MempoolSize.Set(float64(len(bm.pending)))
	bm.log.Debug("Transaction queued", "id", tx.ID(), "type", tx.Type(), "pending", len(bm.pending))
	return nil
}

// MinePendingTransactions snapshots the mempool into a new block, mines it to
// the configured difficulty, appends it and clears the mempool. The whole
// operation runs under the exclusive lock, so no reader can observe the block
// appended without the mempool cleared or vice versa, and no concurrently
// submitted transaction is lost between snapshot and clear.
//
// An empty mempool still produces a block with zero transactions: every
// mining call yields exactly one block.
//
// Cancelling ctx aborts the nonce search and leaves both chain and mempool
// unchanged; the half-mined block is discarded.
func (bm *BlockchainManager) MinePendingTransactions(ctx context.Context) (*types.Block, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	parent := bm.chain[len(bm.chain)-1]
	block := types.NewBlock(uint64(len(bm.chain)), bm.pending, parent.Hash())

	start := time.Now()
	bm.log.Info("Mining block", "index", block.Index(), "txs", len(bm.pending), "difficulty", bm.difficulty)
	var abort <-chan struct{}
	if ctx != nil {
		abort = ctx.Done()
	}
	if err := block.Mine(bm.difficulty, abort); err != nil {
		bm.log.Warn("Mining aborted", "index", block.Index(), "elapsed", time.Since(start))
		return nil, err
	}
	elapsed := time.Since(start)

	bm.chain = append(bm.chain, block)
	bm.pending = nil

	metrics.BlocksMined.Inc()
	metrics.MiningDuration.Observe(elapsed.Seconds())
	metrics.ChainHeight.Set(float64(len(bm.chain)))
	metrics.MempoolSize.Set(0)
	bm.log.Info("Block mined", "index", block.Index(), "hash", block.Hash(),
		"nonce", block.Nonce(), "txs", len(block.Transactions()), "elapsed", elapsed)
	return block, nil
}

// Chain returns a defensive copy of the chain view. Block pointers are
// shared: blocks are the tamper-detection surface and mutating one through
// the view is exactly what the validation walk exists to catch.
func (bm *BlockchainManager) Chain() []*types.Block {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	out := make([]*types.Block, len(bm.chain))
	copy(out, bm.chain)
	return out
}

// LatestBlock returns the block with the highest index.
func (bm *BlockchainManager) LatestBlock() *types.Block {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return bm.chain[len(bm.chain)-1]
}

// Height returns the number of blocks in the chain, genesis included.
func (bm *BlockchainManager) Height() uint64 {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return uint64(len(bm.chain))
}

// PendingTransactions returns a defensive copy of the mempool.
func (bm *BlockchainManager) PendingTransactions() types.Transactions {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return bm.pending.Copy()
}

// TransactionHistory concatenates the transaction sequences of all
// non-genesis blocks in chain order. Because transactions are stamped at
// submission and mined in order, the returned timestamps form a
// non-decreasing sequence.
func (bm *BlockchainManager) TransactionHistory() types.Transactions {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return bm.historyLocked()
}

func (bm *BlockchainManager) historyLocked() types.Transactions {
	var out types.Transactions
	for _, block := range bm.chain[1:] {
		out = append(out, block.Transactions()...)
	}
	return out
}

// ProductHistory returns the traceability projection for productID: the
// subsequence of the transaction history whose attribute map carries the
// queried product, preserving chain order. Empty when the product has no
// recorded event.
func (bm *BlockchainManager) ProductHistory(productID string) types.Transactions {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	var out types.Transactions
	for _, tx := range bm.historyLocked() {
		if tx.ProductID() == productID {
			out = append(out, tx)
		}
	}
	return out
}

// IsChainValid walks the chain and reports whether every invariant holds.
// False is a detection, never a repair: no state is mutated.
func (bm *BlockchainManager) IsChainValid() bool {
	return len(bm.ValidateChain()) == 0
}

// ValidateChain walks the chain and returns one reason per broken invariant:
// a stored hash diverging from the recomputed one, a previous-hash link not
// matching the predecessor, or a mined block missing the difficulty prefix.
// The genesis block is exempt from the difficulty prefix; its hash invariant
// is still checked. An empty result means the chain is intact.
func (bm *BlockchainManager) ValidateChain() []string {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	var reasons []string
	if !bm.chain[0].HashValid() {
		reasons = append(reasons, "block 0: stored hash does not match computed hash")
	}
	for i := 1; i < len(bm.chain); i++ {
		block, parent := bm.chain[i], bm.chain[i-1]
		if !block.HashValid() {
			reasons = append(reasons, fmt.Sprintf("block %d: stored hash does not match computed hash", i))
		}
		if block.PreviousHash() != parent.Hash() {
			reasons = append(reasons, fmt.Sprintf("block %d: previous hash does not link to block %d", i, i-1))
		}
		if !crypto.HasDifficultyPrefix(block.Hash(), bm.difficulty) {
			reasons = append(reasons, fmt.Sprintf("block %d: hash is missing the %d-zero difficulty prefix", i, bm.difficulty))
		}
	}
	if len(reasons) > 0 {
		metrics.ValidationFailures.Inc()
		bm.log.Warn("Chain validation failed", "reasons", len(reasons), "first", reasons[0])
	}
	return reasons
}
