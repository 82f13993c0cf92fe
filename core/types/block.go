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

package types

import (
	"errors"
	"time"

	"github.com/tracelink-network/gtrace/crypto"
)

var (
	// ErrMiningAborted is returned when the abort channel fires before a
	// satisfying nonce is found. The block's nonce and hash reflect the last
	// attempt; the caller is expected to discard the block.
	ErrMiningAborted = errors.New("types: mining aborted")

	// ErrInvalidDifficulty is returned for a negative difficulty target.
	ErrInvalidDifficulty = errors.New("types: negative mining difficulty")
)

// abortCheckInterval is how many nonces are tried between abort-channel
// polls during mining.
const abortCheckInterval = 1024

// Block is a ledger record binding an ordered transaction batch to its
// predecessor through the previous-hash link.
//
// Fields are reachable through setters on purpose: tamper detection is
// exercised by mutating a field and observing HashValid flip to false until
// the hash is recomputed and re-assigned.
type Block struct {
	index        uint64
	timestamp    time.Time
	transactions Transactions
	previousHash string
	hash         string
	nonce        uint64
}

// NewBlock assembles a block over a copy of the transaction sequence, stamps
// the current time, zeroes the nonce and computes the initial hash. The
// timestamp is fixed here and is not rewritten during mining.
func NewBlock(index uint64, txs Transactions, previousHash string) *Block {
	b := &Block{
		index:        index,
		timestamp:    time.Now(),
		transactions: txs.Copy(),
		previousHash: previousHash,
	}
	b.hash = b.ComputeHash()
	return b
}

func (b *Block) Index() uint64        { return b.index }
func (b *Block) Time() time.Time      { return b.timestamp }
func (b *Block) PreviousHash() string { return b.previousHash }
func (b *Block) Hash() string         { return b.hash }
func (b *Block) Nonce() uint64        { return b.nonce }

// Transactions returns a defensive copy of the block's transaction sequence.
func (b *Block) Transactions() Transactions { return b.transactions.Copy() }

// Setters invalidate HashValid until ComputeHash's result is re-assigned
// through SetHash.

func (b *Block) SetIndex(index uint64)          { b.index = index }
func (b *Block) SetTime(t time.Time)            { b.timestamp = t }
func (b *Block) SetPreviousHash(h string)       { b.previousHash = h }
func (b *Block) SetNonce(n uint64)              { b.nonce = n }
func (b *Block) SetHash(h string)               { b.hash = h }
func (b *Block) SetTransactions(txs Transactions) {
	b.transactions = txs.Copy()
}

// ComputeHash digests the canonical form of the current fields:
// index, timestamp, transaction sequence, previous hash and nonce,
// concatenated with no separators.
func (b *Block) ComputeHash() string {
	return crypto.HashConcat(
		crypto.FormatUint(b.index),
		crypto.FormatTime(b.timestamp),
		b.transactions.canonical(),
		b.previousHash,
		crypto.FormatUint(b.nonce),
	)
}

// HashValid reports whether the stored hash still matches the hash computed
// from the current fields. Any field mutation since the last SetHash makes
// this false.
func (b *Block) HashValid() bool {
	return b.hash == b.ComputeHash()
}

// Mine increments the nonce and recomputes the hash until it carries
// difficulty leading '0' characters. A nil abort channel mines without a
// deadline; otherwise a closed or signalled channel stops the search and the
// block is left on its last attempted nonce.
func (b *Block) Mine(difficulty int, abort <-chan struct{}) error {
	if difficulty < 0 {
		return ErrInvalidDifficulty
	}
	for i := 0; !crypto.HasDifficultyPrefix(b.hash, difficulty); i++ {
		if abort != nil && i%abortCheckInterval == 0 {
			select {
			case <-abort:
				return ErrMiningAborted
			default:
			}
		}
		b.nonce++
		b.hash = b.ComputeHash()
	}
	return nil
}
