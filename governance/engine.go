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
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

var (
	proposalRegisteredMeter = metrics.NewRegisteredMeter("governance/proposals/registered", nil)
	proposalDeclinedMeter   = metrics.NewRegisteredMeter("governance/proposals/declined", nil)
	voteCastMeter           = metrics.NewRegisteredMeter("governance/votes/cast", nil)
)

// SimpleGovernance is a self-contained threshold governance engine.
// Governors register proposals and vote on them; a proposal is valid
// once its vote count clears the configured percentage of the roster.
// The engine's own rules (roster membership, required percentage) are
// mutable only through proposals gated by the same identifier scheme as
// any externally guarded action, so no caller can escalate privileges
// outside the voting process.
//
// The engine exclusively owns its registry, roster and threshold; all
// access goes through its methods. Every operation checks all of its
// preconditions before the first mutation, so a failing call leaves no
// partial writes behind.
type SimpleGovernance struct {
	mu        sync.RWMutex
	registry  *ProposalRegistry
	roster    *GovernorRoster
	threshold uint64 // required percentage of the roster, 0-100

	feed   event.Feed
	scope  event.SubscriptionScope
	logger log.Logger

	now func() uint64 // unix seconds; swappable in tests
}

// NewSimpleGovernance creates an engine with an initial governor set and
// required percentage. The percentage must not exceed 100.
func NewSimpleGovernance(initialGovernors []common.Address, thresholdPct uint64) (*SimpleGovernance, error) {
	if thresholdPct > 100 {
		return nil, ErrPercentageOutOfRange
	}
	return &SimpleGovernance{
		registry:  NewProposalRegistry(),
		roster:    NewGovernorRoster(initialGovernors),
		threshold: thresholdPct,
		logger:    log.New("module", "governance"),
		now:       func() uint64 { return uint64(time.Now().Unix()) },
	}, nil
}

// SubscribeEvents delivers the governance audit trail to ch until the
// returned subscription is unsubscribed.
func (g *SimpleGovernance) SubscribeEvents(ch chan<- Event) event.Subscription {
	return g.scope.Track(g.feed.Subscribe(ch))
}

// Stop terminates all event subscriptions. The engine itself stays
// usable.
func (g *SimpleGovernance) Stop() {
	g.scope.Close()
}

// RegisterProposal creates the record for a caller-derived identifier.
// The caller must hold the governor role, the identifier must be fresh,
// and the deadline must lie in the future.
func (g *SimpleGovernance) RegisterProposal(caller common.Address, id common.Hash, expiry uint64) error {
	g.mu.Lock()
	if !g.roster.Contains(caller) {
		g.mu.Unlock()
		return ErrNotGovernor
	}
	err := g.registry.Register(id, expiry, g.now())
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.logger.Info("Proposal registered", "id", id, "expiry", expiry, "governor", caller)
	proposalRegisteredMeter.Mark(1)
	g.feed.Send(Event{Type: EventProposalRegistered, ProposalID: id, Account: caller, Value: expiry})
	return nil
}

// CastVote records one approval by the calling governor. The proposal
// must exist, must still be open for votes, and the caller must not
// have voted on it before; a repeated vote always fails and never
// double-counts.
func (g *SimpleGovernance) CastVote(caller common.Address, id common.Hash) error {
	g.mu.Lock()
	if !g.roster.Contains(caller) {
		g.mu.Unlock()
		return ErrNotGovernor
	}
	err := g.registry.Vote(id, caller, g.now())
	count := g.registry.VoteCount(id)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.logger.Info("Vote cast", "id", id, "governor", caller, "votes", count)
	voteCastMeter.Mark(1)
	g.feed.Send(Event{Type: EventVoteCast, ProposalID: id, Account: caller, Value: count})
	return nil
}

// EvaluateProposal reports whether the proposal's vote count clears the
// required share of the current roster. It is a pure read over recorded
// state: an identifier that was never registered has zero votes. Note
// that declining a proposal does not retract votes, so a proposal that
// cleared the threshold before being declined remains valid.
func (g *SimpleGovernance) EvaluateProposal(id common.Hash) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.approved(id)
}

// approved is EvaluateProposal without locking, for use inside writes.
func (g *SimpleGovernance) approved(id common.Hash) bool {
	return MeetsThreshold(g.registry.VoteCount(id), g.roster.Count(), g.threshold)
}

// DeclineProposal closes a proposal for new votes. The action is itself
// gated by a valid proposal derived from the decline tag, the target
// proposal's identifier and the supplied nonce.
func (g *SimpleGovernance) DeclineProposal(id common.Hash, nonce uint64) error {
	gate := DeriveID(TagDeclineProposal, id, nonce)

	g.mu.Lock()
	if !g.approved(gate) {
		g.mu.Unlock()
		return ErrNotAuthorized
	}
	err := g.registry.Decline(id)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.logger.Info("Proposal declined", "id", id, "gate", gate)
	proposalDeclinedMeter.Mark(1)
	g.feed.Send(Event{Type: EventProposalDeclined, ProposalID: id})
	return nil
}

// AddGovernor adds an account to the roster, gated by a valid proposal
// for exactly this addition.
func (g *SimpleGovernance) AddGovernor(account common.Address, nonce uint64) error {
	gate := DeriveID(TagAddGovernor, AddressArg(account), nonce)

	g.mu.Lock()
	if !g.approved(gate) {
		g.mu.Unlock()
		return ErrNotAuthorized
	}
	err := g.roster.Add(account)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.logger.Info("Governor added", "account", account, "gate", gate)
	g.feed.Send(Event{Type: EventGovernorAdded, ProposalID: gate, Account: account})
	return nil
}

// RemoveGovernor removes an account from the roster, gated by a valid
// proposal for exactly this removal. Votes the removed governor already
// cast stay counted.
func (g *SimpleGovernance) RemoveGovernor(account common.Address, nonce uint64) error {
	gate := DeriveID(TagRemoveGovernor, AddressArg(account), nonce)

	g.mu.Lock()
	if !g.approved(gate) {
		g.mu.Unlock()
		return ErrNotAuthorized
	}
	err := g.roster.Remove(account)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.logger.Info("Governor removed", "account", account, "gate", gate)
	g.feed.Send(Event{Type: EventGovernorRemoved, ProposalID: gate, Account: account})
	return nil
}

// ChangeThresholdPercentage sets the required vote percentage, gated by
// a valid proposal for exactly this value. Percentages above 100 are
// rejected before the proposal check runs.
func (g *SimpleGovernance) ChangeThresholdPercentage(pct uint64, nonce uint64) error {
	if pct > 100 {
		return ErrPercentageOutOfRange
	}
	gate := DeriveID(TagChangeThreshold, UintArg(pct), nonce)

	g.mu.Lock()
	if !g.approved(gate) {
		g.mu.Unlock()
		return ErrNotAuthorized
	}
	g.threshold = pct
	g.mu.Unlock()

	g.logger.Info("Threshold percentage changed", "percentage", pct, "gate", gate)
	g.feed.Send(Event{Type: EventThresholdChanged, ProposalID: gate, Value: pct})
	return nil
}

// IsGovernor reports whether an account holds the governor role.
func (g *SimpleGovernance) IsGovernor(account common.Address) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.roster.Contains(account)
}

// GovernorCount returns the size of the roster.
func (g *SimpleGovernance) GovernorCount() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.roster.Count()
}

// ThresholdPercentage returns the required vote percentage.
func (g *SimpleGovernance) ThresholdPercentage() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.threshold
}

// VoteCount returns the recorded approvals for a proposal.
func (g *SimpleGovernance) VoteCount(id common.Hash) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.registry.VoteCount(id)
}

// ProposalExpiry returns a proposal's deadline, or zero if the
// identifier was never registered.
func (g *SimpleGovernance) ProposalExpiry(id common.Hash) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.registry.Expiry(id)
}

// IsDeclined reports whether a proposal has been closed for new votes.
func (g *SimpleGovernance) IsDeclined(id common.Hash) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.registry.Declined(id)
}
