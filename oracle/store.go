// Copyright 2025 The msgOracle Authors
// This file is part of the msgOracle library.
//
// The msgOracle library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The msgOracle library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the msgOracle library. If not, see <http://www.gnu.org/licenses/>.

// Package oracle defines the contract of the shared value store whose
// writes the authorization gateway guards, together with an in-memory
// reference implementation. Readers of the store converge on identical
// prices and a validity window (TTL) for each message kind.
package oracle

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// MessageKind identifies one priced message class.
type MessageKind [32]byte

// KindFromString derives a message kind from a human-readable name.
func KindFromString(name string) MessageKind {
	return MessageKind(crypto.Keccak256Hash([]byte(name)))
}

// Hash returns the kind as a common.Hash.
func (k MessageKind) Hash() common.Hash {
	return common.Hash(k)
}

// ValueStore is the read/write API the gateway forwards authorized
// actions into. The store itself enforces its timing rules (TTL
// maturity, price advance notice); the gateway does not re-validate
// them.
type ValueStore interface {
	// TTL returns the current validity window.
	TTL() time.Duration

	// SetTTL replaces the validity window. The store only accepts a new
	// TTL after the previous one has fully elapsed since it was set.
	SetTTL(d time.Duration) error

	// SetPrice schedules a price for a message kind, taking effect at
	// validFrom (unix seconds). The store requires validFrom to honor
	// its advance-notice window.
	SetPrice(kind MessageKind, price *uint256.Int, validFrom uint64) error

	// RevertPrice cancels a pending price change matching the exact
	// (kind, price, validFrom) tuple.
	RevertPrice(kind MessageKind, price *uint256.Int, validFrom uint64) error

	// TransferOwnership hands the store to a new owner.
	TransferOwnership(newOwner common.Address) error

	// RenounceOwnership permanently clears the owner.
	RenounceOwnership() error
}
