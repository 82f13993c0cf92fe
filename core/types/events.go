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
	"fmt"
	"strconv"
	"strings"
)

// ProductStatus is the lifecycle state a product reaches through transfers.
type ProductStatus string

const (
	StatusCreated   ProductStatus = "CREATED"
	StatusInTransit ProductStatus = "IN_TRANSIT"
	StatusDelivered ProductStatus = "DELIVERED"
	StatusVerified  ProductStatus = "VERIFIED"
)

// Valid reports whether s is one of the defined statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusInTransit, StatusDelivered, StatusVerified:
		return true
	}
	return false
}

// requireField is the shared required-field check: present and non-empty
// after trim.
func requireField(kind, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("types: %s: missing required field %s", kind, field)
	}
	return nil
}

// ProductCreation records a new product entering the supply chain.
type ProductCreation struct {
	SupplierID  string
	ProductID   string
	ProductName string
	// ProductDescription may be empty but is always rendered into the
	// attribute map, never absent.
	ProductDescription string
	Origin             string
}

func (p ProductCreation) kind() string { return TxProductCreation }

func (p ProductCreation) attributes() map[string]string {
	return map[string]string{
		KeySupplierID:         p.SupplierID,
		KeyProductID:          p.ProductID,
		KeyProductName:        p.ProductName,
		KeyProductDescription: p.ProductDescription,
		KeyOrigin:             p.Origin,
	}
}

func (p ProductCreation) validate() error {
	for _, f := range []struct{ name, value string }{
		{KeySupplierID, p.SupplierID},
		{KeyProductID, p.ProductID},
		{KeyProductName, p.ProductName},
		{KeyOrigin, p.Origin},
	} {
		if err := requireField(TxProductCreation, f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (p ProductCreation) fromAttributes(data map[string]string) (EventData, error) {
	return ProductCreation{
		SupplierID:         data[KeySupplierID],
		ProductID:          data[KeyProductID],
		ProductName:        data[KeyProductName],
		ProductDescription: data[KeyProductDescription],
		Origin:             data[KeyOrigin],
	}, nil
}

// ProductTransfer records custody of a product moving between parties.
type ProductTransfer struct {
	FromParty    string
	ToParty      string
	ProductID    string
	FromLocation string
	ToLocation   string
	NewStatus    ProductStatus
}

func (p ProductTransfer) kind() string { return TxProductTransfer }

func (p ProductTransfer) attributes() map[string]string {
	return map[string]string{
		KeyFromParty:    p.FromParty,
		KeyToParty:      p.ToParty,
		KeyProductID:    p.ProductID,
		KeyFromLocation: p.FromLocation,
		KeyToLocation:   p.ToLocation,
		KeyNewStatus:    string(p.NewStatus),
	}
}

func (p ProductTransfer) validate() error {
	for _, f := range []struct{ name, value string }{
		{KeyFromParty, p.FromParty},
		{KeyToParty, p.ToParty},
		{KeyProductID, p.ProductID},
		{KeyFromLocation, p.FromLocation},
		{KeyToLocation, p.ToLocation},
	} {
		if err := requireField(TxProductTransfer, f.name, f.value); err != nil {
			return err
		}
	}
	if !p.NewStatus.Valid() {
		return fmt.Errorf("types: %s: invalid status %q", TxProductTransfer, p.NewStatus)
	}
	return nil
}

func (p ProductTransfer) fromAttributes(data map[string]string) (EventData, error) {
	return ProductTransfer{
		FromParty:    data[KeyFromParty],
		ToParty:      data[KeyToParty],
		ProductID:    data[KeyProductID],
		FromLocation: data[KeyFromLocation],
		ToLocation:   data[KeyToLocation],
		NewStatus:    ProductStatus(data[KeyNewStatus]),
	}, nil
}

// ProductVerification records an authenticity check performed on a product.
type ProductVerification struct {
	VerifierID string
	ProductID  string
	Result     bool
	// Notes may be empty but is always rendered, never absent.
	Notes string
}

func (p ProductVerification) kind() string { return TxProductVerification }

func (p ProductVerification) attributes() map[string]string {
	return map[string]string{
		KeyVerifierID:        p.VerifierID,
		KeyProductID:         p.ProductID,
		KeyVerified:          strconv.FormatBool(p.Result),
		KeyVerificationNotes: p.Notes,
	}
}

func (p ProductVerification) validate() error {
	for _, f := range []struct{ name, value string }{
		{KeyVerifierID, p.VerifierID},
		{KeyProductID, p.ProductID},
	} {
		if err := requireField(TxProductVerification, f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (p ProductVerification) fromAttributes(data map[string]string) (EventData, error) {
	result, err := strconv.ParseBool(data[KeyVerified])
	if err != nil {
		return nil, fmt.Errorf("types: %s: bad %s value %q", TxProductVerification, KeyVerified, data[KeyVerified])
	}
	return ProductVerification{
		VerifierID: data[KeyVerifierID],
		ProductID:  data[KeyProductID],
		Result:     result,
		Notes:      data[KeyVerificationNotes],
	}, nil
}
