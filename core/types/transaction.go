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

// Package types contains the data types of the trace ledger: the polymorphic
// supply-chain transaction family and the proof-of-work block.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tracelink-network/gtrace/crypto"
)

// Transaction type tags. Every transaction carries exactly one of these and
// the tag is fixed by the payload variant, never caller-supplied.
const (
	TxProductCreation     = "PRODUCT_CREATION"
	TxProductTransfer     = "PRODUCT_TRANSFER"
	TxProductVerification = "PRODUCT_VERIFICATION"
)

// Attribute map keys shared between the event payloads, the rule evaluator
// and the history projections.
const (
	KeyProductID          = "productId"
	KeyOrigin             = "origin"
	KeySupplierID         = "supplierId"
	KeyProductName        = "productName"
	KeyProductDescription = "productDescription"
	KeyFromParty          = "fromParty"
	KeyToParty            = "toParty"
	KeyFromLocation       = "fromLocation"
	KeyToLocation         = "toLocation"
	KeyNewStatus          = "newStatus"
	KeyVerifierID         = "verifierId"
	KeyVerified           = "verified"
	KeyVerificationNotes  = "verificationNotes"
)

var (
	ErrEmptyTransactionID = errors.New("types: transaction identifier is empty")
	ErrZeroTimestamp      = errors.New("types: transaction timestamp is missing")
	ErrNilPayload         = errors.New("types: transaction payload is nil")
	errUnknownTxType      = errors.New("types: unknown transaction type")
)

// EventData is the payload carried by a Transaction. The three concrete
// variants in this package are the only implementations; the unexported
// methods keep the set closed.
type EventData interface {
	// kind returns the fixed type tag of the variant.
	kind() string

	// attributes renders the variant's fields as the flat attribute map used
	// for hashing, rule evaluation and projections. The map is freshly
	// allocated on every call.
	attributes() map[string]string

	// validate checks the variant's own field constraints.
	validate() error

	// fromAttributes rebuilds the payload from a decoded attribute map.
	fromAttributes(data map[string]string) (EventData, error)
}

// Transaction is a single supply-chain event. The envelope carries the
// identifier and timestamp shared by all variants; the payload carries the
// event-specific fields. Transactions are immutable once constructed, so
// sharing pointers across defensive copies of a sequence is safe.
type Transaction struct {
	id    string
	time  time.Time
	inner EventData
}

// NewTransaction wraps payload into a transaction stamped with the current
// time.
func NewTransaction(id string, payload EventData) *Transaction {
	return NewTransactionAt(id, time.Now(), payload)
}

// NewTransactionAt is NewTransaction with an explicit timestamp. It exists
// for replaying collaborator rows and for tests that need a controlled clock.
func NewTransactionAt(id string, when time.Time, payload EventData) *Transaction {
	return &Transaction{id: id, time: when, inner: payload}
}

// ID returns the transaction identifier.
func (tx *Transaction) ID() string { return tx.id }

// Type returns the fixed type tag of the payload variant.
func (tx *Transaction) Type() string {
	if tx.inner == nil {
		return ""
	}
	return tx.inner.kind()
}

// Time returns the creation timestamp.
func (tx *Transaction) Time() time.Time { return tx.time }

// Data returns the payload's attribute map. The map is a fresh copy; callers
// may not reach the transaction through it.
func (tx *Transaction) Data() map[string]string {
	if tx.inner == nil {
		return map[string]string{}
	}
	return tx.inner.attributes()
}

// Validate checks the envelope invariants and then the payload's own field
// constraints. A nil error means the transaction is fit for mining.
func (tx *Transaction) Validate() error {
	if strings.TrimSpace(tx.id) == "" {
		return ErrEmptyTransactionID
	}
	if tx.time.IsZero() {
		return ErrZeroTimestamp
	}
	if tx.inner == nil {
		return ErrNilPayload
	}
	return tx.inner.validate()
}

// Canonical returns the stable textual representation used for hashing:
// identifier, type tag, canonical timestamp and the attribute map rendered
// in sorted key order. Equal data always yields equal canonical text.
func (tx *Transaction) Canonical() string {
	var b strings.Builder
	b.WriteString(tx.id)
	b.WriteString(tx.Type())
	b.WriteString(crypto.FormatTime(tx.time))
	data := tx.Data()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(data[k])
		b.WriteByte(';')
	}
	return b.String()
}

// Equal reports structural equality: identifier, type tag, canonical
// timestamp text and attribute map. Timestamps are compared through the
// canonical rendering so that precision loss in a collaborator store shows
// up as an explicit mismatch on both sides.
func (tx *Transaction) Equal(other *Transaction) bool {
	if other == nil {
		return false
	}
	return tx.Canonical() == other.Canonical()
}

// ProductID returns the product the event refers to, or "" for a payload
// that carries none. All three variants carry one.
func (tx *Transaction) ProductID() string {
	return tx.Data()[KeyProductID]
}

// txJSON is the wire form used inside the block row's transactions column.
type txJSON struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Timestamp string            `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

// MarshalJSON encodes the transaction in the collaborator wire form.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(&txJSON{
		ID:        tx.id,
		Type:      tx.Type(),
		Timestamp: crypto.FormatTime(tx.time),
		Data:      tx.Data(),
	})
}

// UnmarshalJSON decodes the collaborator wire form, rebuilding the concrete
// payload variant from the type tag.
func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var dec txJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	when, err := crypto.ParseTime(dec.Timestamp)
	if err != nil {
		return fmt.Errorf("types: bad transaction timestamp %q: %w", dec.Timestamp, err)
	}
	inner, err := payloadFromAttributes(dec.Type, dec.Data)
	if err != nil {
		return err
	}
	tx.id = dec.ID
	tx.time = when
	tx.inner = inner
	return nil
}

// payloadFromAttributes dispatches on the type tag to rebuild a payload.
func payloadFromAttributes(kind string, data map[string]string) (EventData, error) {
	var proto EventData
	switch kind {
	case TxProductCreation:
		proto = ProductCreation{}
	case TxProductTransfer:
		proto = ProductTransfer{}
	case TxProductVerification:
		proto = ProductVerification{}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownTxType, kind)
	}
	return proto.fromAttributes(data)
}

// Transactions is an ordered sequence of transactions.
type Transactions []*Transaction

// Copy returns a fresh slice sharing the immutable transaction values.
func (txs Transactions) Copy() Transactions {
	if txs == nil {
		return nil
	}
	out := make(Transactions, len(txs))
	copy(out, txs)
	return out
}

// canonical concatenates the canonical forms in order.
func (txs Transactions) canonical() string {
	var b strings.Builder
	for _, tx := range txs {
		b.WriteString(tx.Canonical())
	}
	return b.String()
}
