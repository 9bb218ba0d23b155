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

package oracle

import (
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
)

var (
	ErrInvalidTTL       = errors.New("TTL must be at least one second")
	ErrTTLNotElapsed    = errors.New("previous TTL has not elapsed since it was set")
	ErrInvalidPrice     = errors.New("price must not be nil")
	ErrNoticeTooShort   = errors.New("price change does not honor the advance-notice window")
	ErrNoPendingChange  = errors.New("no pending price change matches the supplied tuple")
	ErrOwnershipGone    = errors.New("ownership has been renounced")
)

// EventType identifies the kind of store notification.
type EventType uint8

const (
	EventPriceSet EventType = iota
	EventPriceReverted
	EventTTLChanged
	EventOwnershipTransferred
	EventOwnershipRenounced
)

// Event is one record of the store's own notification trail; readers
// use it to learn the authoritative current price and TTL. Events are
// sent outside the store lock, so delivery order across concurrent
// mutations is best-effort.
type Event struct {
	Type      EventType
	Kind      MessageKind
	Price     *uint256.Int
	ValidFrom uint64
	TTL       time.Duration
	Owner     common.Address
}

// pendingPrice is a scheduled price change that has not taken effect.
type pendingPrice struct {
	price     *uint256.Int
	validFrom uint64
}

// MemStore is the in-memory reference implementation of ValueStore,
// used by the simulator and by tests. It enforces the store-side timing
// rules: a TTL change is only accepted after the previous TTL has fully
// elapsed, and a scheduled price change must give readers at least one
// validity window of advance notice. While a recent TTL change has not
// matured, the notice window is the more conservative of the old and
// new TTL, so a shortened TTL cannot be used to sneak a price change
// past readers still holding the longer window.
type MemStore struct {
	mu sync.RWMutex

	ttl          time.Duration
	prevTTL      time.Duration
	ttlChangedAt uint64 // unix seconds of the last TTL change

	prices  map[MessageKind]*uint256.Int
	pending map[MessageKind]pendingPrice

	owner     common.Address
	renounced bool

	feed  event.Feed
	scope event.SubscriptionScope

	now func() uint64 // unix seconds; swappable in tests
}

// NewMemStore creates a store with an initial TTL and owner. The TTL
// must be at least one second: the store keeps time in unix seconds, so
// a sub-second window would truncate to nothing and disable the elapse
// and notice rules. The initial window predates construction, so the
// first TTL change is not held back by the elapse rule.
func NewMemStore(initialTTL time.Duration, owner common.Address) (*MemStore, error) {
	if initialTTL < time.Second {
		return nil, ErrInvalidTTL
	}
	return &MemStore{
		ttl:     initialTTL,
		prevTTL: initialTTL,
		prices:  make(map[MessageKind]*uint256.Int),
		pending: make(map[MessageKind]pendingPrice),
		owner:   owner,
		now:     func() uint64 { return uint64(time.Now().Unix()) },
	}, nil
}

// SubscribeEvents delivers store notifications to ch until the returned
// subscription is unsubscribed.
func (s *MemStore) SubscribeEvents(ch chan<- Event) event.Subscription {
	return s.scope.Track(s.feed.Subscribe(ch))
}

// Stop terminates all event subscriptions.
func (s *MemStore) Stop() {
	s.scope.Close()
}

// TTL returns the current validity window.
func (s *MemStore) TTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ttl
}

// SetTTL replaces the validity window once the previous one has fully
// elapsed since it was set. Sub-second windows are rejected for the
// same reason as in NewMemStore.
func (s *MemStore) SetTTL(d time.Duration) error {
	if d < time.Second {
		return ErrInvalidTTL
	}
	s.mu.Lock()
	now := s.now()
	if now < s.ttlChangedAt+seconds(s.ttl) {
		s.mu.Unlock()
		return ErrTTLNotElapsed
	}
	s.prevTTL = s.ttl
	s.ttl = d
	s.ttlChangedAt = now
	s.mu.Unlock()

	s.feed.Send(Event{Type: EventTTLChanged, TTL: d})
	return nil
}

// noticeWindow returns the advance notice a price change must give.
// Until the latest TTL change has matured (one full previous window
// since the change), the larger of the old and new TTL applies.
func (s *MemStore) noticeWindow(now uint64) time.Duration {
	if now < s.ttlChangedAt+seconds(s.prevTTL) && s.prevTTL > s.ttl {
		return s.prevTTL
	}
	return s.ttl
}

// SetPrice schedules a price change for kind, effective at validFrom.
func (s *MemStore) SetPrice(kind MessageKind, price *uint256.Int, validFrom uint64) error {
	if price == nil {
		return ErrInvalidPrice
	}
	s.mu.Lock()
	now := s.now()
	if validFrom < now+seconds(s.noticeWindow(now)) {
		s.mu.Unlock()
		return ErrNoticeTooShort
	}
	// A previously scheduled change that already took effect becomes
	// the active price before the new schedule replaces it.
	if p, ok := s.pending[kind]; ok && p.validFrom <= now {
		s.prices[kind] = p.price
	}
	s.pending[kind] = pendingPrice{price: price.Clone(), validFrom: validFrom}
	s.mu.Unlock()

	s.feed.Send(Event{Type: EventPriceSet, Kind: kind, Price: price.Clone(), ValidFrom: validFrom})
	return nil
}

// RevertPrice cancels the pending change for kind, provided the
// supplied tuple matches it exactly and it has not yet taken effect.
func (s *MemStore) RevertPrice(kind MessageKind, price *uint256.Int, validFrom uint64) error {
	if price == nil {
		return ErrInvalidPrice
	}
	s.mu.Lock()
	now := s.now()
	p, ok := s.pending[kind]
	if !ok || p.validFrom != validFrom || p.price.Cmp(price) != 0 || p.validFrom <= now {
		s.mu.Unlock()
		return ErrNoPendingChange
	}
	delete(s.pending, kind)
	s.mu.Unlock()

	s.feed.Send(Event{Type: EventPriceReverted, Kind: kind, Price: price.Clone(), ValidFrom: validFrom})
	return nil
}

// Price returns the price in effect for kind at the current time, and
// whether one has ever been set.
func (s *MemStore) Price(kind MessageKind) (*uint256.Int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	if p, ok := s.pending[kind]; ok && p.validFrom <= now {
		return p.price.Clone(), true
	}
	if price, ok := s.prices[kind]; ok {
		return price.Clone(), true
	}
	return nil, false
}

// Owner returns the current owner; the zero address after renouncement.
func (s *MemStore) Owner() common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// TransferOwnership hands the store to a new owner.
func (s *MemStore) TransferOwnership(newOwner common.Address) error {
	s.mu.Lock()
	if s.renounced {
		s.mu.Unlock()
		return ErrOwnershipGone
	}
	s.owner = newOwner
	s.mu.Unlock()

	s.feed.Send(Event{Type: EventOwnershipTransferred, Owner: newOwner})
	return nil
}

// RenounceOwnership permanently clears the owner.
func (s *MemStore) RenounceOwnership() error {
	s.mu.Lock()
	if s.renounced {
		s.mu.Unlock()
		return ErrOwnershipGone
	}
	s.renounced = true
	s.owner = common.Address{}
	s.mu.Unlock()

	s.feed.Send(Event{Type: EventOwnershipRenounced})
	return nil
}

func seconds(d time.Duration) uint64 {
	return uint64(d / time.Second)
}
