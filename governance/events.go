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

// EventType identifies the kind of governance notification.
type EventType uint8

const (
	EventProposalRegistered EventType = iota
	EventVoteCast
	EventProposalDeclined
	EventGovernorAdded
	EventGovernorRemoved
	EventThresholdChanged
)

// Event is one record of the append-only governance audit trail,
// emitted after every successful state mutation. Emission happens after
// the engine lock is released (feed.Send blocks until every subscriber
// accepts, and a subscriber may call back into the engine), so under
// concurrent mutations delivery order is best-effort: events can
// interleave differently from the serialized state changes.
type Event struct {
	Type       EventType
	ProposalID common.Hash    // the affected proposal, or the gating proposal for roster/config changes
	Account    common.Address // proposer, voter, or roster member; zero when not applicable
	Value      uint64         // expiry, vote count, or new percentage depending on Type
}
