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
	"encoding/json"
	"fmt"

	"github.com/tracelink-network/gtrace/crypto"
)

// The row codecs are the collaborator-facing persisted layouts. The ledger
// itself is process-resident; an external store that wants to mirror it
// consumes these rows and nothing else.

// BlockRow is the persisted layout of a block.
type BlockRow struct {
	BlockIndex   uint64 `json:"block_index"`
	Timestamp    string `json:"timestamp"`
	Transactions string `json:"transactions"` // JSON array of transaction objects
	PreviousHash string `json:"previous_hash"`
	Hash         string `json:"hash"`
	Nonce        uint64 `json:"nonce"`
}

// TransactionRow is the persisted layout of a transaction in the
// collaborator schema. FromParty and ToParty are projected from the variant:
// the supplier for creations, the transfer endpoints for transfers, the
// verifier for verifications.
type TransactionRow struct {
	TransactionID   string `json:"transaction_id"`
	TransactionType string `json:"transaction_type"`
	Timestamp       string `json:"timestamp"`
	FromParty       string `json:"from_party"`
	ToParty         string `json:"to_party"`
	ProductID       string `json:"product_id"`
	Data            string `json:"data"` // JSON object of the attribute map
}

// EncodeBlockRow renders b in the persisted layout. The genesis block's row
// keeps the "0" previous-hash sentinel and an empty "[]" transactions column.
func EncodeBlockRow(b *Block) (*BlockRow, error) {
	list := b.Transactions()
	if list == nil {
		list = Transactions{}
	}
	txs, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("types: encoding block %d transactions: %w", b.Index(), err)
	}
	return &BlockRow{
		BlockIndex:   b.Index(),
		Timestamp:    crypto.FormatTime(b.Time()),
		Transactions: string(txs),
		PreviousHash: b.PreviousHash(),
		Hash:         b.Hash(),
		Nonce:        b.Nonce(),
	}, nil
}

// DecodeBlockRow rebuilds a block from its persisted layout. The returned
// block carries the stored hash as-is; HashValid tells the caller whether
// the row survived storage unmodified.
func DecodeBlockRow(row *BlockRow) (*Block, error) {
	when, err := crypto.ParseTime(row.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("types: bad block timestamp %q: %w", row.Timestamp, err)
	}
	var txs Transactions
	if err := json.Unmarshal([]byte(row.Transactions), &txs); err != nil {
		return nil, fmt.Errorf("types: decoding block %d transactions: %w", row.BlockIndex, err)
	}
	b := &Block{
		index:        row.BlockIndex,
		timestamp:    when,
		transactions: txs,
		previousHash: row.PreviousHash,
		hash:         row.Hash,
		nonce:        row.Nonce,
	}
	return b, nil
}

// EncodeTransactionRow renders tx in the collaborator schema.
func EncodeTransactionRow(tx *Transaction) (*TransactionRow, error) {
	data := tx.Data()
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("types: encoding transaction %s data: %w", tx.ID(), err)
	}
	row := &TransactionRow{
		TransactionID:   tx.ID(),
		TransactionType: tx.Type(),
		Timestamp:       crypto.FormatTime(tx.Time()),
		ProductID:       data[KeyProductID],
		Data:            string(blob),
	}
	switch tx.Type() {
	case TxProductCreation:
		row.FromParty = data[KeySupplierID]
	case TxProductTransfer:
		row.FromParty = data[KeyFromParty]
		row.ToParty = data[KeyToParty]
	case TxProductVerification:
		row.FromParty = data[KeyVerifierID]
	}
	return row, nil
}

// DecodeTransactionRow rebuilds a transaction from the collaborator schema.
func DecodeTransactionRow(row *TransactionRow) (*Transaction, error) {
	when, err := crypto.ParseTime(row.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("types: bad transaction timestamp %q: %w", row.Timestamp, err)
	}
	var data map[string]string
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return nil, fmt.Errorf("types: decoding transaction %s data: %w", row.TransactionID, err)
	}
	inner, err := payloadFromAttributes(row.TransactionType, data)
	if err != nil {
		return nil, err
	}
	return NewTransactionAt(row.TransactionID, when, inner), nil
}
