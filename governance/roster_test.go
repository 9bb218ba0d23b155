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
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestRosterMembership(t *testing.T) {
	a := common.HexToAddress("0x01")
	b := common.HexToAddress("0x02")
	roster := NewGovernorRoster([]common.Address{a})

	if !roster.Contains(a) {
		t.Error("initial governor missing")
	}
	if roster.Contains(b) {
		t.Error("unexpected governor")
	}
	if roster.Count() != 1 {
		t.Errorf("expected count 1, got %d", roster.Count())
	}
}

func TestRosterDuplicateInitial(t *testing.T) {
	a := common.HexToAddress("0x01")
	roster := NewGovernorRoster([]common.Address{a, a, a})
	if roster.Count() != 1 {
		t.Errorf("duplicate initial governors inflated count: %d", roster.Count())
	}
}

func TestRosterAddRemove(t *testing.T) {
	a := common.HexToAddress("0x01")
	b := common.HexToAddress("0x02")
	roster := NewGovernorRoster([]common.Address{a})

	if err := roster.Add(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := roster.Add(b); err != ErrAlreadyGovernor {
		t.Errorf("expected %v, got %v", ErrAlreadyGovernor, err)
	}
	if roster.Count() != 2 {
		t.Errorf("expected count 2, got %d", roster.Count())
	}

	if err := roster.Remove(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := roster.Remove(a); err != ErrNotGovernor {
		t.Errorf("expected %v, got %v", ErrNotGovernor, err)
	}
	if roster.Count() != 1 {
		t.Errorf("expected count 1, got %d", roster.Count())
	}
}

// The count must equal the number of flagged addresses after any
// sequence of adds and removes.
func TestRosterCountConsistency(t *testing.T) {
	roster := NewGovernorRoster(nil)
	accounts := make([]common.Address, 8)
	for i := range accounts {
		accounts[i] = common.BytesToAddress([]byte{byte(i + 1)})
		if err := roster.Add(accounts[i]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for _, account := range accounts[:4] {
		if err := roster.Remove(account); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	flagged := uint64(0)
	for _, account := range accounts {
		if roster.Contains(account) {
			flagged++
		}
	}
	if roster.Count() != flagged {
		t.Errorf("count %d diverged from flagged %d", roster.Count(), flagged)
	}
}
