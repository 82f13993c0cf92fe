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
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2024, 5, 10, 9, 30, 0, 123456789, time.Local)

func testCreation() ProductCreation {
	return ProductCreation{
		SupplierID:         "SUP-1",
		ProductID:          "P-100",
		ProductName:        "Coffee",
		ProductDescription: "",
		Origin:             "Colombia",
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		tx      *Transaction
		wantErr string
	}{
		{
			name: "valid creation with empty description",
			tx:   NewTransactionAt("TX1", testTime, testCreation()),
		},
		{
			name:    "empty identifier",
			tx:      NewTransactionAt("   ", testTime, testCreation()),
			wantErr: "identifier is empty",
		},
		{
			name:    "zero timestamp",
			tx:      NewTransactionAt("TX1", time.Time{}, testCreation()),
			wantErr: "timestamp is missing",
		},
		{
			name:    "nil payload",
			tx:      NewTransactionAt("TX1", testTime, nil),
			wantErr: "payload is nil",
		},
		{
			name:    "creation missing origin",
			tx:      NewTransactionAt("TX1", testTime, ProductCreation{SupplierID: "S", ProductID: "P", ProductName: "N"}),
			wantErr: "missing required field origin",
		},
		{
			name: "transfer missing from party",
			tx: NewTransactionAt("TX2", testTime, ProductTransfer{
				ToParty: "R", ProductID: "P", FromLocation: "A", ToLocation: "B", NewStatus: StatusInTransit,
			}),
			wantErr: "missing required field fromParty",
		},
		{
			name: "transfer with unknown status",
			tx: NewTransactionAt("TX2", testTime, ProductTransfer{
				FromParty: "S", ToParty: "R", ProductID: "P", FromLocation: "A", ToLocation: "B", NewStatus: "LOST",
			}),
			wantErr: "invalid status",
		},
		{
			name: "verification with empty notes",
			tx:   NewTransactionAt("TX3", testTime, ProductVerification{VerifierID: "V", ProductID: "P", Result: true}),
		},
		{
			name:    "verification missing verifier",
			tx:      NewTransactionAt("TX3", testTime, ProductVerification{ProductID: "P", Result: true}),
			wantErr: "missing required field verifierId",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionTypeTags(t *testing.T) {
	tests := []struct {
		payload EventData
		want    string
	}{
		{testCreation(), TxProductCreation},
		{ProductTransfer{NewStatus: StatusCreated}, TxProductTransfer},
		{ProductVerification{}, TxProductVerification},
	}
	for _, tt := range tests {
		if got := NewTransactionAt("TX", testTime, tt.payload).Type(); got != tt.want {
			t.Errorf("Type() = %q, want %q", got, tt.want)
		}
	}
}

func TestCanonicalStability(t *testing.T) {
	a := NewTransactionAt("TX1", testTime, testCreation())
	b := NewTransactionAt("TX1", testTime, testCreation())
	if a.Canonical() != b.Canonical() {
		t.Fatalf("equal data produced different canonical forms:\n%s\n%s", a.Canonical(), b.Canonical())
	}
	// The attribute map must render in sorted key order; origin precedes
	// productName regardless of map iteration order.
	canon := a.Canonical()
	if strings.Index(canon, KeyOrigin+"=") > strings.Index(canon, KeyProductName+"=") {
		t.Fatalf("attribute keys not sorted in canonical form: %s", canon)
	}
	// Even the empty description contributes a key.
	if !strings.Contains(canon, KeyProductDescription+"=;") {
		t.Fatalf("empty description absent from canonical form: %s", canon)
	}
}

func TestTransactionEqual(t *testing.T) {
	base := NewTransactionAt("TX1", testTime, testCreation())
	same := NewTransactionAt("TX1", testTime, testCreation())
	if !base.Equal(same) {
		t.Fatal("structurally equal transactions compared unequal")
	}
	altered := testCreation()
	altered.Origin = "Brazil"
	if base.Equal(NewTransactionAt("TX1", testTime, altered)) {
		t.Fatal("differing origin compared equal")
	}
	if base.Equal(NewTransactionAt("TX1", testTime.Add(time.Nanosecond), testCreation())) {
		t.Fatal("differing timestamp compared equal")
	}
	if base.Equal(nil) {
		t.Fatal("nil compared equal")
	}
}

func TestTransactionDataIsDefensive(t *testing.T) {
	tx := NewTransactionAt("TX1", testTime, testCreation())
	data := tx.Data()
	data[KeyOrigin] = "tampered"
	if tx.Data()[KeyOrigin] != "Colombia" {
		t.Fatal("mutating the returned data map reached the transaction")
	}
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	tx := NewTransactionAt("TX2", testTime, ProductTransfer{
		FromParty: "S", ToParty: "R", ProductID: "P-100",
		FromLocation: "Colombia", ToLocation: "Warehouse", NewStatus: StatusInTransit,
	})
	blob, err := tx.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Transaction
	if err := back.UnmarshalJSON(blob); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !tx.Equal(&back) {
		t.Fatalf("round trip changed the transaction:\n%s\n%s", tx.Canonical(), back.Canonical())
	}
}
