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

package governance

import (
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Tag namespaces an action kind within the proposal identifier scheme.
// A single registry can gate arbitrarily many action kinds because every
// identifier commits to the tag of the action it authorizes.
type Tag string

// Action tags. Every distinct guarded action has its own tag; in
// particular leader removal uses RL rather than sharing AL, so an
// addition proposal can never authorize a removal of the same address.
const (
	TagAddGovernor       Tag = "AG"    // add a governor to the roster
	TagRemoveGovernor    Tag = "RK"    // remove a governor from the roster
	TagChangeThreshold   Tag = "CGPN"  // change the required vote percentage
	TagDeclineProposal   Tag = "DP"    // close a proposal for new votes
	TagSetTTL            Tag = "CNTWP" // unbounded TTL change on the value store
	TagRevertPrice       Tag = "CRMP"  // revert a pending message price change
	TagTransferOwnership Tag = "CTO"   // transfer value store ownership
	TagRenounceOwnership Tag = "CRO"   // renounce value store ownership
	TagAddLeader         Tag = "AL"    // add a leader to the gateway roster
	TagRemoveLeader      Tag = "RL"    // remove a leader from the gateway roster
	TagChangeBound       Tag = "CMTCP" // change the leader TTL bound percentage
)

// DeriveID computes the canonical proposal identifier for a guarded
// action. The argument slot is always exactly 32 bytes and the nonce is
// a fixed-width big-endian suffix, so no two distinct (tag, argument,
// nonce) triples encode to the same byte string. Identifiers are
// permanent once registered; a fresh nonce yields a fresh identifier for
// re-attempting the same action.
func DeriveID(tag Tag, arg common.Hash, nonce uint64) common.Hash {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return crypto.Keccak256Hash([]byte(tag), arg[:], n[:])
}

// AddressArg encodes an address into the 32-byte argument slot,
// left-padded with zeroes.
func AddressArg(account common.Address) common.Hash {
	return common.BytesToHash(account.Bytes())
}

// UintArg encodes an unsigned integer into the 32-byte argument slot as
// a big-endian value.
func UintArg(v uint64) common.Hash {
	var b [32]byte
	binary.BigEndian.PutUint64(b[24:], v)
	return common.Hash(b)
}

// DurationArg encodes a duration into the argument slot as its
// nanosecond count.
func DurationArg(d time.Duration) common.Hash {
	return UintArg(uint64(d))
}
