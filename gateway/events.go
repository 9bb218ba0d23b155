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
	"github.com/ethereum/go-ethereum/common"
)

// EventType identifies the kind of gateway notification.
type EventType uint8

const (
	EventLeaderAdded EventType = iota
	EventLeaderRemoved
	EventBoundChanged
)

// Event is one record of the gateway's audit trail. The value store
// emits its own price, TTL and ownership notifications; the gateway
// only reports changes to its leader roster and bound configuration.
// As in the governance engine, events are sent outside the gateway
// lock, so delivery order across concurrent mutations is best-effort.
type Event struct {
	Type       EventType
	ProposalID common.Hash    // the gating proposal that authorized the change
	Account    common.Address // affected leader; zero for bound changes
	Value      uint64         // new bound percentage for EventBoundChanged
}
