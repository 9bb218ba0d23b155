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
	"github.com/ethereum/go-ethereum/common"
)

// GovernorRoster tracks the set of addresses holding the governor role.
// The count always equals the number of flagged addresses; membership is
// only mutable through Add and Remove so the two can never diverge.
// The roster carries no lock of its own: SimpleGovernance owns it and
// serializes access.
type GovernorRoster struct {
	members map[common.Address]bool
	count   uint64
}

// NewGovernorRoster creates a roster from an initial membership set.
// Duplicate addresses in the input are flagged once.
func NewGovernorRoster(initial []common.Address) *GovernorRoster {
	r := &GovernorRoster{members: make(map[common.Address]bool)}
	for _, account := range initial {
		if !r.members[account] {
			r.members[account] = true
			r.count++
		}
	}
	return r
}

// Contains reports whether an account holds the governor role.
func (r *GovernorRoster) Contains(account common.Address) bool {
	return r.members[account]
}

// Count returns the number of governors.
func (r *GovernorRoster) Count() uint64 {
	return r.count
}

// Add flags an account as governor and increments the count.
func (r *GovernorRoster) Add(account common.Address) error {
	if r.members[account] {
		return ErrAlreadyGovernor
	}
	r.members[account] = true
	r.count++
	return nil
}

// Remove clears an account's governor flag and decrements the count.
func (r *GovernorRoster) Remove(account common.Address) error {
	if !r.members[account] {
		return ErrNotGovernor
	}
	delete(r.members, account)
	r.count--
	return nil
}
