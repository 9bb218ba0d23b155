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

// proposalRecord is the persisted state of one proposal. A zero expiry
// means the identifier has never been registered; any other value means
// it exists and is permanent.
type proposalRecord struct {
	expiry    uint64 // unix seconds; voting is open strictly before this
	voteCount uint64
	voted     map[common.Address]bool
	declined  bool
}

// ProposalRegistry stores proposal records keyed by their canonical
// 32-byte identifier. Records are created by Register, mutated only by
// Vote and Decline, and never deleted: a caller who needs to re-attempt
// a failed action must derive a fresh identifier with a new nonce.
// Like GovernorRoster, the registry relies on its owner for locking.
type ProposalRegistry struct {
	proposals map[common.Hash]*proposalRecord
}

// NewProposalRegistry creates an empty registry.
func NewProposalRegistry() *ProposalRegistry {
	return &ProposalRegistry{proposals: make(map[common.Hash]*proposalRecord)}
}

// Register creates the record for id with a zero vote count. The
// deadline must lie strictly in the future at the time of creation.
func (pr *ProposalRegistry) Register(id common.Hash, expiry, now uint64) error {
	if _, exists := pr.proposals[id]; exists {
		return ErrProposalExists
	}
	if expiry <= now {
		return ErrInvalidDeadline
	}
	pr.proposals[id] = &proposalRecord{
		expiry: expiry,
		voted:  make(map[common.Address]bool),
	}
	return nil
}

// Vote records a single approval by voter. Votes are accepted while the
// current time is strictly before the deadline and the proposal has not
// been declined. A voter is counted at most once per identifier.
func (pr *ProposalRegistry) Vote(id common.Hash, voter common.Address, now uint64) error {
	record, exists := pr.proposals[id]
	if !exists {
		return ErrProposalNotFound
	}
	if record.declined || now >= record.expiry {
		return ErrVotingClosed
	}
	if record.voted[voter] {
		return ErrAlreadyVoted
	}
	record.voted[voter] = true
	record.voteCount++
	return nil
}

// Decline puts the proposal into its terminal closed-for-votes state.
// Votes already cast stay counted; decline blocks future votes only.
func (pr *ProposalRegistry) Decline(id common.Hash) error {
	record, exists := pr.proposals[id]
	if !exists {
		return ErrProposalNotFound
	}
	record.declined = true
	return nil
}

// VoteCount returns the recorded approvals for id; zero for identifiers
// that were never registered.
func (pr *ProposalRegistry) VoteCount(id common.Hash) uint64 {
	if record, exists := pr.proposals[id]; exists {
		return record.voteCount
	}
	return 0
}

// Expiry returns the proposal deadline, or zero if id was never
// registered.
func (pr *ProposalRegistry) Expiry(id common.Hash) uint64 {
	if record, exists := pr.proposals[id]; exists {
		return record.expiry
	}
	return 0
}

// Declined reports whether the proposal has been closed for new votes.
func (pr *ProposalRegistry) Declined(id common.Hash) bool {
	if record, exists := pr.proposals[id]; exists {
		return record.declined
	}
	return false
}

// HasVoted reports whether voter already voted on id.
func (pr *ProposalRegistry) HasVoted(id common.Hash, voter common.Address) bool {
	if record, exists := pr.proposals[id]; exists {
		return record.voted[voter]
	}
	return false
}
