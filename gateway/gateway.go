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

// Package gateway implements the two-tier authorization layer in front
// of the shared value store. Leaders may perform two narrow, bounded
// actions without a proposal; every other mutation recomputes its
// canonical proposal identifier and requires the governance engine to
// report it valid before the call is forwarded to the store. The leader
// roster and the TTL bound are themselves only mutable through
// governor-tier proposals, so a leader can never widen its own
// privileges.
package gateway

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/holiman/uint256"

	"github.com/Eknir/msgOracle/governance"
	"github.com/Eknir/msgOracle/oracle"
)

var (
	actionAuthorizedMeter = metrics.NewRegisteredMeter("gateway/actions/authorized", nil)
	actionRejectedMeter   = metrics.NewRegisteredMeter("gateway/actions/rejected", nil)
)

// ProposalEvaluator is the slice of the governance engine the gateway
// depends on. *governance.SimpleGovernance satisfies it.
type ProposalEvaluator interface {
	EvaluateProposal(id common.Hash) bool
}

// Gateway guards every mutating call into the value store. It holds no
// store state of its own, only its leader roster, the bound percentage
// and references to the governance engine and the store. Every call
// resolves synchronously: either all checks pass and the action is
// forwarded, or the call fails with no partial effects.
type Gateway struct {
	mu          sync.RWMutex
	leaders     map[common.Address]bool
	leaderCount uint64
	boundPct    uint64 // max relative TTL move per leader call, 0-100

	gov   ProposalEvaluator
	store oracle.ValueStore

	feed   event.Feed
	scope  event.SubscriptionScope
	logger log.Logger
}

// New creates a gateway over the given governance engine and value
// store. The bound percentage must not exceed 100.
func New(gov ProposalEvaluator, store oracle.ValueStore, initialLeaders []common.Address, boundPct uint64) (*Gateway, error) {
	if boundPct > 100 {
		return nil, ErrPercentageOutOfRange
	}
	gw := &Gateway{
		leaders:  make(map[common.Address]bool),
		boundPct: boundPct,
		gov:      gov,
		store:    store,
		logger:   log.New("module", "gateway"),
	}
	for _, account := range initialLeaders {
		if !gw.leaders[account] {
			gw.leaders[account] = true
			gw.leaderCount++
		}
	}
	return gw, nil
}

// SubscribeEvents delivers the gateway audit trail to ch until the
// returned subscription is unsubscribed.
func (gw *Gateway) SubscribeEvents(ch chan<- Event) event.Subscription {
	return gw.scope.Track(gw.feed.Subscribe(ch))
}

// Stop terminates all event subscriptions.
func (gw *Gateway) Stop() {
	gw.scope.Close()
}

// RevertArgsHash computes the pre-image hash binding a price reversal
// to its exact argument tuple. The proposal identifier for a reversal
// is derived from this hash rather than from the raw tuple, keeping the
// identifier format uniform (one opaque 32-byte slot per tag) while
// still committing the executed call to the arguments voted on.
func RevertArgsHash(kind oracle.MessageKind, price *uint256.Int, validFrom uint64) common.Hash {
	var p [32]byte
	if price != nil {
		p = price.Bytes32()
	}
	var vf [8]byte
	binary.BigEndian.PutUint64(vf[:], validFrom)
	return crypto.Keccak256Hash(kind[:], p[:], vf[:])
}

// authorized recomputes the canonical identifier for a guarded action
// and asks the governance engine whether it is valid. The identifier is
// returned either way so callers can report it.
func (gw *Gateway) authorized(tag governance.Tag, arg common.Hash, nonce uint64) (common.Hash, bool) {
	id := governance.DeriveID(tag, arg, nonce)
	if !gw.gov.EvaluateProposal(id) {
		actionRejectedMeter.Mark(1)
		gw.logger.Warn("Governed action rejected", "tag", string(tag), "id", id)
		return id, false
	}
	actionAuthorizedMeter.Mark(1)
	return id, true
}

// isLeader reports whether caller holds the leader role.
func (gw *Gateway) isLeader(caller common.Address) bool {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	return gw.leaders[caller]
}

// SetPrice schedules a message price. Leader fast path: the value is
// unbounded, but the action is low blast-radius and reversible by
// governors through RevertPrice.
func (gw *Gateway) SetPrice(caller common.Address, kind oracle.MessageKind, price *uint256.Int, validFrom uint64) error {
	if !gw.isLeader(caller) {
		return ErrNotLeader
	}
	if err := gw.store.SetPrice(kind, price, validFrom); err != nil {
		return err
	}
	gw.logger.Info("Message price set", "kind", kind.Hash(), "validFrom", validFrom, "leader", caller)
	return nil
}

// SetTTLBounded moves the TTL within the configured bound of its
// current value. Leader fast path. With current TTL T, requested T' and
// bound P, the move is allowed iff (100-P)*T <= 100*T' <= (100+P)*T;
// cross-multiplication keeps the boundary exact.
func (gw *Gateway) SetTTLBounded(caller common.Address, newTTL time.Duration) error {
	gw.mu.RLock()
	leader := gw.leaders[caller]
	bound := gw.boundPct
	gw.mu.RUnlock()
	if !leader {
		return ErrNotLeader
	}
	if newTTL <= 0 {
		return ErrTTLOutOfBounds
	}
	cur := gw.store.TTL()
	// The products exceed 64 bits for multi-year TTLs, so the comparison
	// is done in 256-bit arithmetic where it cannot wrap.
	t := uint256.NewInt(uint64(cur))
	requested := new(uint256.Int).Mul(uint256.NewInt(uint64(newTTL)), uint256.NewInt(100))
	upper := new(uint256.Int).Mul(t, uint256.NewInt(100+bound))
	lower := new(uint256.Int).Mul(t, uint256.NewInt(100-bound))
	if requested.Gt(upper) || requested.Lt(lower) {
		return ErrTTLOutOfBounds
	}
	if err := gw.store.SetTTL(newTTL); err != nil {
		return err
	}
	gw.logger.Info("TTL changed within bound", "ttl", newTTL, "leader", caller)
	return nil
}

// SetTTL replaces the TTL without a bound. Governor tier: the caller
// must present the nonce of a valid proposal for exactly this value.
func (gw *Gateway) SetTTL(newTTL time.Duration, nonce uint64) error {
	if _, ok := gw.authorized(governance.TagSetTTL, governance.DurationArg(newTTL), nonce); !ok {
		return ErrNotAuthorized
	}
	if err := gw.store.SetTTL(newTTL); err != nil {
		return err
	}
	gw.logger.Info("TTL changed by governance", "ttl", newTTL)
	return nil
}

// RevertPrice cancels a pending price change. Governor tier. The caller
// supplies the original tuple plus its pre-image hash; the tuple must
// re-hash to exactly the value the governors voted on, preventing a
// bait-and-switch between the voted and the executed reversal.
func (gw *Gateway) RevertPrice(kind oracle.MessageKind, price *uint256.Int, validFrom uint64, argHash common.Hash, nonce uint64) error {
	if RevertArgsHash(kind, price, validFrom) != argHash {
		return ErrArgumentMismatch
	}
	if _, ok := gw.authorized(governance.TagRevertPrice, argHash, nonce); !ok {
		return ErrNotAuthorized
	}
	if err := gw.store.RevertPrice(kind, price, validFrom); err != nil {
		return err
	}
	gw.logger.Info("Message price reverted", "kind", kind.Hash(), "validFrom", validFrom)
	return nil
}

// TransferOwnership hands the value store to a new owner. Governor tier.
func (gw *Gateway) TransferOwnership(newOwner common.Address, nonce uint64) error {
	if _, ok := gw.authorized(governance.TagTransferOwnership, governance.AddressArg(newOwner), nonce); !ok {
		return ErrNotAuthorized
	}
	if err := gw.store.TransferOwnership(newOwner); err != nil {
		return err
	}
	gw.logger.Info("Store ownership transferred", "owner", newOwner)
	return nil
}

// RenounceOwnership permanently clears the value store's owner.
// Governor tier; the argument slot is zero since the action takes no
// arguments.
func (gw *Gateway) RenounceOwnership(nonce uint64) error {
	if _, ok := gw.authorized(governance.TagRenounceOwnership, common.Hash{}, nonce); !ok {
		return ErrNotAuthorized
	}
	if err := gw.store.RenounceOwnership(); err != nil {
		return err
	}
	gw.logger.Info("Store ownership renounced")
	return nil
}

// AddLeader adds an account to the leader roster. Governor tier only;
// there is deliberately no leader fast path for roster changes.
func (gw *Gateway) AddLeader(account common.Address, nonce uint64) error {
	gate, ok := gw.authorized(governance.TagAddLeader, governance.AddressArg(account), nonce)
	if !ok {
		return ErrNotAuthorized
	}
	gw.mu.Lock()
	if gw.leaders[account] {
		gw.mu.Unlock()
		return ErrAlreadyLeader
	}
	gw.leaders[account] = true
	gw.leaderCount++
	gw.mu.Unlock()

	gw.logger.Info("Leader added", "account", account)
	gw.feed.Send(Event{Type: EventLeaderAdded, ProposalID: gate, Account: account})
	return nil
}

// RemoveLeader removes an account from the leader roster. Governor tier
// only, under its own tag: an addition proposal can never authorize a
// removal.
func (gw *Gateway) RemoveLeader(account common.Address, nonce uint64) error {
	gate, ok := gw.authorized(governance.TagRemoveLeader, governance.AddressArg(account), nonce)
	if !ok {
		return ErrNotAuthorized
	}
	gw.mu.Lock()
	if !gw.leaders[account] {
		gw.mu.Unlock()
		return ErrNotLeader
	}
	delete(gw.leaders, account)
	gw.leaderCount--
	gw.mu.Unlock()

	gw.logger.Info("Leader removed", "account", account)
	gw.feed.Send(Event{Type: EventLeaderRemoved, ProposalID: gate, Account: account})
	return nil
}

// ChangeBoundPercentage sets the leader TTL bound. Governor tier.
// Percentages above 100 are rejected before the proposal check runs.
func (gw *Gateway) ChangeBoundPercentage(pct uint64, nonce uint64) error {
	if pct > 100 {
		return ErrPercentageOutOfRange
	}
	gate, ok := gw.authorized(governance.TagChangeBound, governance.UintArg(pct), nonce)
	if !ok {
		return ErrNotAuthorized
	}
	gw.mu.Lock()
	gw.boundPct = pct
	gw.mu.Unlock()

	gw.logger.Info("Bound percentage changed", "percentage", pct)
	gw.feed.Send(Event{Type: EventBoundChanged, ProposalID: gate, Value: pct})
	return nil
}

// IsLeader reports whether an account holds the leader role.
func (gw *Gateway) IsLeader(account common.Address) bool {
	return gw.isLeader(account)
}

// LeaderCount returns the size of the leader roster.
func (gw *Gateway) LeaderCount() uint64 {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	return gw.leaderCount
}

// BoundPercentage returns the leader TTL bound.
func (gw *Gateway) BoundPercentage() uint64 {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	return gw.boundPct
}
