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

package gateway

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Eknir/msgOracle/governance"
	"github.com/Eknir/msgOracle/oracle"
)

// stubEvaluator approves exactly the identifiers it was primed with.
type stubEvaluator struct {
	valid map[common.Hash]bool
}

func newStubEvaluator() *stubEvaluator {
	return &stubEvaluator{valid: make(map[common.Hash]bool)}
}

func (s *stubEvaluator) approve(tag governance.Tag, arg common.Hash, nonce uint64) {
	s.valid[governance.DeriveID(tag, arg, nonce)] = true
}

func (s *stubEvaluator) EvaluateProposal(id common.Hash) bool {
	return s.valid[id]
}

// stubStore records forwarded calls.
type stubStore struct {
	ttl time.Duration

	setTTLCalls    []time.Duration
	setPriceCalls  int
	revertCalls    int
	transferCalls  []common.Address
	renounceCalls  int
}

func (s *stubStore) TTL() time.Duration       { return s.ttl }
func (s *stubStore) SetTTL(d time.Duration) error {
	s.setTTLCalls = append(s.setTTLCalls, d)
	s.ttl = d
	return nil
}
func (s *stubStore) SetPrice(kind oracle.MessageKind, price *uint256.Int, validFrom uint64) error {
	s.setPriceCalls++
	return nil
}
func (s *stubStore) RevertPrice(kind oracle.MessageKind, price *uint256.Int, validFrom uint64) error {
	s.revertCalls++
	return nil
}
func (s *stubStore) TransferOwnership(newOwner common.Address) error {
	s.transferCalls = append(s.transferCalls, newOwner)
	return nil
}
func (s *stubStore) RenounceOwnership() error {
	s.renounceCalls++
	return nil
}

func newTestGateway(t *testing.T, boundPct uint64) (*Gateway, *stubEvaluator, *stubStore, common.Address) {
	t.Helper()
	leader := common.HexToAddress("0x10")
	gov := newStubEvaluator()
	store := &stubStore{ttl: 1000 * time.Second}
	gw, err := New(gov, store, []common.Address{leader}, boundPct)
	if err != nil {
		t.Fatalf("failed to create gateway: %v", err)
	}
	return gw, gov, store, leader
}

func TestNewRejectsBadBound(t *testing.T) {
	if _, err := New(newStubEvaluator(), &stubStore{}, nil, 101); err != ErrPercentageOutOfRange {
		t.Errorf("expected %v, got %v", ErrPercentageOutOfRange, err)
	}
}

func TestSetPriceLeaderOnly(t *testing.T) {
	gw, _, store, leader := newTestGateway(t, 10)
	kind := oracle.KindFromString("standard-message")
	outsider := common.HexToAddress("0x99")

	if err := gw.SetPrice(outsider, kind, uint256.NewInt(100), 5000); err != ErrNotLeader {
		t.Errorf("expected %v, got %v", ErrNotLeader, err)
	}
	if store.setPriceCalls != 0 {
		t.Error("rejected call must not reach the store")
	}

	if err := gw.SetPrice(leader, kind, uint256.NewInt(100), 5000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.setPriceCalls != 1 {
		t.Error("authorized call not forwarded")
	}
}

func TestSetTTLBoundedBoundary(t *testing.T) {
	// Bound 10% around a current TTL of 1000s: exactly 1100s and 900s
	// are inside, one second beyond either edge is outside.
	gw, _, store, leader := newTestGateway(t, 10)

	tests := []struct {
		ttl time.Duration
		ok  bool
	}{
		{1100 * time.Second, true},
		{1101 * time.Second, false},
		{900 * time.Second, true},
		{899 * time.Second, false},
		{1000 * time.Second, true},
	}
	for _, tt := range tests {
		store.ttl = 1000 * time.Second
		err := gw.SetTTLBounded(leader, tt.ttl)
		if tt.ok && err != nil {
			t.Errorf("SetTTLBounded(%v): unexpected error %v", tt.ttl, err)
		}
		if !tt.ok && err != ErrTTLOutOfBounds {
			t.Errorf("SetTTLBounded(%v): expected %v, got %v", tt.ttl, ErrTTLOutOfBounds, err)
		}
	}
}

// The bound products do not fit in 64 bits for very large TTLs; a
// wrapping comparison would let a request of roughly current+146 years
// slip back inside the window under any bound.
func TestSetTTLBoundedLargeValues(t *testing.T) {
	gw, _, store, leader := newTestGateway(t, 10)

	// (current + 2^62 ns) * 100 wraps to current * 100 in uint64.
	huge := store.ttl + time.Duration(1)<<62
	if err := gw.SetTTLBounded(leader, huge); err != ErrTTLOutOfBounds {
		t.Errorf("expected %v for %v, got %v", ErrTTLOutOfBounds, huge, err)
	}
	if len(store.setTTLCalls) != 0 {
		t.Error("out-of-bound request reached the store")
	}

	// A multi-year current TTL overflows even the honest products; the
	// exact edges must still hold.
	store.ttl = 100000 * time.Hour
	if err := gw.SetTTLBounded(leader, 110000*time.Hour); err != nil {
		t.Errorf("edge change on large TTL rejected: %v", err)
	}
	store.ttl = 100000 * time.Hour
	if err := gw.SetTTLBounded(leader, 110001*time.Hour); err != ErrTTLOutOfBounds {
		t.Errorf("expected %v beyond the edge, got %v", ErrTTLOutOfBounds, err)
	}
}

func TestSetTTLBoundedRejectsNonPositive(t *testing.T) {
	gw, _, _, leader := newTestGateway(t, 100)
	if err := gw.SetTTLBounded(leader, 0); err != ErrTTLOutOfBounds {
		t.Errorf("expected %v, got %v", ErrTTLOutOfBounds, err)
	}
}

func TestSetTTLBoundedLeaderOnly(t *testing.T) {
	gw, _, _, _ := newTestGateway(t, 10)
	outsider := common.HexToAddress("0x99")
	if err := gw.SetTTLBounded(outsider, 1000*time.Second); err != ErrNotLeader {
		t.Errorf("expected %v, got %v", ErrNotLeader, err)
	}
}

func TestSetTTLGovernorTier(t *testing.T) {
	gw, gov, store, _ := newTestGateway(t, 10)
	newTTL := 5000 * time.Second

	if err := gw.SetTTL(newTTL, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v, got %v", ErrNotAuthorized, err)
	}

	gov.approve(governance.TagSetTTL, governance.DurationArg(newTTL), 1)
	if err := gw.SetTTL(newTTL, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.setTTLCalls) != 1 || store.setTTLCalls[0] != newTTL {
		t.Errorf("TTL change not forwarded: %v", store.setTTLCalls)
	}

	// The proposal binds the exact value: another TTL under the same
	// nonce derives a different identifier.
	if err := gw.SetTTL(6000*time.Second, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v for unvoted value, got %v", ErrNotAuthorized, err)
	}
}

func TestRevertPriceArgumentBinding(t *testing.T) {
	gw, gov, store, _ := newTestGateway(t, 10)
	kind := oracle.KindFromString("standard-message")
	price := uint256.NewInt(1500)
	validFrom := uint64(7000)
	argHash := RevertArgsHash(kind, price, validFrom)
	gov.approve(governance.TagRevertPrice, argHash, 1)

	// A mismatched pre-image hash fails even though a proposal for it
	// is valid: the executed tuple must be the voted one.
	wrongHash := RevertArgsHash(kind, price, validFrom+1)
	gov.approve(governance.TagRevertPrice, wrongHash, 1)
	if err := gw.RevertPrice(kind, price, validFrom, wrongHash, 1); err != ErrArgumentMismatch {
		t.Errorf("expected %v, got %v", ErrArgumentMismatch, err)
	}
	if store.revertCalls != 0 {
		t.Error("mismatched call must not reach the store")
	}

	if err := gw.RevertPrice(kind, price, validFrom, argHash, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.revertCalls != 1 {
		t.Error("authorized reversal not forwarded")
	}
}

func TestRevertPriceRequiresProposal(t *testing.T) {
	gw, _, _, _ := newTestGateway(t, 10)
	kind := oracle.KindFromString("standard-message")
	price := uint256.NewInt(1500)
	argHash := RevertArgsHash(kind, price, 7000)

	if err := gw.RevertPrice(kind, price, 7000, argHash, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v, got %v", ErrNotAuthorized, err)
	}
}

func TestOwnershipActions(t *testing.T) {
	gw, gov, store, _ := newTestGateway(t, 10)
	newOwner := common.HexToAddress("0x77")

	if err := gw.TransferOwnership(newOwner, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v, got %v", ErrNotAuthorized, err)
	}
	gov.approve(governance.TagTransferOwnership, governance.AddressArg(newOwner), 1)
	if err := gw.TransferOwnership(newOwner, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.transferCalls) != 1 || store.transferCalls[0] != newOwner {
		t.Errorf("transfer not forwarded: %v", store.transferCalls)
	}

	if err := gw.RenounceOwnership(2); err != ErrNotAuthorized {
		t.Errorf("expected %v, got %v", ErrNotAuthorized, err)
	}
	gov.approve(governance.TagRenounceOwnership, common.Hash{}, 2)
	if err := gw.RenounceOwnership(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.renounceCalls != 1 {
		t.Error("renouncement not forwarded")
	}
}

// A leader can never mutate the leader roster or the bound directly:
// those actions have no fast path at all.
func TestLeaderCannotEscalate(t *testing.T) {
	gw, _, _, leader := newTestGateway(t, 10)
	accomplice := common.HexToAddress("0x66")

	if err := gw.AddLeader(accomplice, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v, got %v", ErrNotAuthorized, err)
	}
	if err := gw.RemoveLeader(leader, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v, got %v", ErrNotAuthorized, err)
	}
	if err := gw.ChangeBoundPercentage(100, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v, got %v", ErrNotAuthorized, err)
	}
	if gw.BoundPercentage() != 10 || !gw.IsLeader(leader) || gw.IsLeader(accomplice) {
		t.Error("rejected escalation mutated gateway state")
	}
}

func TestAddRemoveLeader(t *testing.T) {
	gw, gov, _, _ := newTestGateway(t, 10)
	account := common.HexToAddress("0x42")

	gov.approve(governance.TagAddLeader, governance.AddressArg(account), 1)
	if err := gw.AddLeader(account, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gw.IsLeader(account) || gw.LeaderCount() != 2 {
		t.Errorf("roster not updated: count %d", gw.LeaderCount())
	}
	if err := gw.AddLeader(account, 1); err != ErrAlreadyLeader {
		t.Errorf("expected %v, got %v", ErrAlreadyLeader, err)
	}

	// Removal runs under its own tag; the addition proposal does not
	// authorize it.
	if err := gw.RemoveLeader(account, 1); err != ErrNotAuthorized {
		t.Errorf("expected %v under the addition proposal, got %v", ErrNotAuthorized, err)
	}
	gov.approve(governance.TagRemoveLeader, governance.AddressArg(account), 1)
	if err := gw.RemoveLeader(account, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.IsLeader(account) || gw.LeaderCount() != 1 {
		t.Errorf("roster not updated after removal: count %d", gw.LeaderCount())
	}

	gov.approve(governance.TagRemoveLeader, governance.AddressArg(account), 2)
	if err := gw.RemoveLeader(account, 2); err != ErrNotLeader {
		t.Errorf("expected %v, got %v", ErrNotLeader, err)
	}
}

func TestChangeBoundPercentage(t *testing.T) {
	gw, gov, _, _ := newTestGateway(t, 10)

	// Range check precedes the proposal check.
	gov.approve(governance.TagChangeBound, governance.UintArg(101), 1)
	if err := gw.ChangeBoundPercentage(101, 1); err != ErrPercentageOutOfRange {
		t.Errorf("expected %v, got %v", ErrPercentageOutOfRange, err)
	}

	gov.approve(governance.TagChangeBound, governance.UintArg(25), 2)
	if err := gw.ChangeBoundPercentage(25, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.BoundPercentage() != 25 {
		t.Errorf("bound not updated: %d", gw.BoundPercentage())
	}
}

func TestGatewayEvents(t *testing.T) {
	gw, gov, _, _ := newTestGateway(t, 10)
	events := make(chan Event, 8)
	sub := gw.SubscribeEvents(events)
	defer sub.Unsubscribe()

	account := common.HexToAddress("0x42")
	gov.approve(governance.TagAddLeader, governance.AddressArg(account), 1)
	if err := gw.AddLeader(account, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := <-events
	if ev.Type != EventLeaderAdded || ev.Account != account {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.ProposalID != governance.DeriveID(governance.TagAddLeader, governance.AddressArg(account), 1) {
		t.Error("event does not carry the gating proposal id")
	}
}

// End-to-end over the real engine: the full proposal flow authorizes a
// bounded-leadership handover and the bound math holds at the edge.
func TestGatewayWithRealEngine(t *testing.T) {
	governors := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
		common.HexToAddress("0x04"),
	}
	engine, err := governance.NewSimpleGovernance(governors, 75)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	store := &stubStore{ttl: 1000 * time.Second}
	gw, err := New(engine, store, nil, 10)
	if err != nil {
		t.Fatalf("failed to create gateway: %v", err)
	}

	leader := common.HexToAddress("0x42")
	id := governance.DeriveID(governance.TagAddLeader, governance.AddressArg(leader), 1)
	expiry := uint64(time.Now().Unix()) + 3600
	if err := engine.RegisterProposal(governors[0], id, expiry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, governor := range governors[:2] {
		if err := engine.CastVote(governor, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Two of four governors is short of 75%.
	if err := gw.AddLeader(leader, 1); err != ErrNotAuthorized {
		t.Fatalf("expected %v, got %v", ErrNotAuthorized, err)
	}
	if err := engine.CastVote(governors[2], id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gw.AddLeader(leader, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := gw.SetTTLBounded(leader, 1100*time.Second); err != nil {
		t.Fatalf("edge TTL change rejected: %v", err)
	}
	store.ttl = 1000 * time.Second
	if err := gw.SetTTLBounded(leader, 1101*time.Second); err != ErrTTLOutOfBounds {
		t.Fatalf("expected %v, got %v", ErrTTLOutOfBounds, err)
	}
}
