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

// oracle-sim wires the governance engine, the authorization gateway and
// the in-memory value store together and runs a scripted governance
// scenario end to end, printing the notification trail as it happens.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/Eknir/msgOracle/gateway"
	"github.com/Eknir/msgOracle/governance"
	"github.com/Eknir/msgOracle/internal/config"
	"github.com/Eknir/msgOracle/oracle"
)

func main() {
	configPath := flag.String("config", "", "path to TOML configuration (built-in defaults when omitted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Scenario failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store, err := oracle.NewMemStore(cfg.InitialTTL(), cfg.OwnerAddress())
	if err != nil {
		return err
	}
	gov, err := governance.NewSimpleGovernance(cfg.GovernorAddresses(), cfg.ThresholdPercentage)
	if err != nil {
		return err
	}
	gw, err := gateway.New(gov, store, cfg.LeaderAddresses(), cfg.BoundPercentage)
	if err != nil {
		return err
	}
	defer gov.Stop()
	defer gw.Stop()
	defer store.Stop()

	govEvents := make(chan governance.Event, 64)
	gwEvents := make(chan gateway.Event, 64)
	storeEvents := make(chan oracle.Event, 64)
	govSub := gov.SubscribeEvents(govEvents)
	gwSub := gw.SubscribeEvents(gwEvents)
	storeSub := store.SubscribeEvents(storeEvents)
	defer govSub.Unsubscribe()
	defer gwSub.Unsubscribe()
	defer storeSub.Unsubscribe()

	done := make(chan struct{})
	go printEvents(govEvents, gwEvents, storeEvents, done)

	governors := cfg.GovernorAddresses()
	expiry := uint64(time.Now().Add(cfg.VotingWindow()).Unix())

	// A new leader joins through the full proposal flow.
	newLeader := common.HexToAddress("0x0000000000000000000000000000000000000042")
	nonce := uint64(1)
	addLeaderID := governance.DeriveID(governance.TagAddLeader, governance.AddressArg(newLeader), nonce)
	if err := gov.RegisterProposal(governors[0], addLeaderID, expiry); err != nil {
		return err
	}
	for _, governor := range governors {
		if err := gov.CastVote(governor, addLeaderID); err != nil {
			return err
		}
	}
	if err := gw.AddLeader(newLeader, nonce); err != nil {
		return err
	}

	// The leader probes one unit past its bound, then moves the TTL to
	// the exact edge.
	cur := store.TTL()
	edge := cur + cur*time.Duration(cfg.BoundPercentage)/100
	if err := gw.SetTTLBounded(newLeader, edge+time.Second); err != nil {
		log.Info("Out-of-bound TTL change rejected as expected", "err", err)
	}
	if err := gw.SetTTLBounded(newLeader, edge); err != nil {
		return err
	}

	// The leader schedules a price one notice window out.
	kind := oracle.KindFromString("standard-message")
	validFrom := uint64(time.Now().Add(2 * store.TTL()).Unix())
	if err := gw.SetPrice(newLeader, kind, uint256.NewInt(1500), validFrom); err != nil {
		return err
	}

	// Governors lower the threshold through the engine's own scheme.
	nonce = 2
	newPct := uint64(60)
	changeID := governance.DeriveID(governance.TagChangeThreshold, governance.UintArg(newPct), nonce)
	if err := gov.RegisterProposal(governors[0], changeID, expiry); err != nil {
		return err
	}
	for _, governor := range governors {
		if err := gov.CastVote(governor, changeID); err != nil {
			return err
		}
	}
	if err := gov.ChangeThresholdPercentage(newPct, nonce); err != nil {
		return err
	}

	// Give the event printer a moment to drain, then finish.
	time.Sleep(100 * time.Millisecond)
	close(done)

	fmt.Printf("\nFinal state: %d governors, threshold %d%%, %d leaders, bound %d%%, TTL %s\n",
		gov.GovernorCount(), gov.ThresholdPercentage(), gw.LeaderCount(), gw.BoundPercentage(), store.TTL())
	return nil
}

func printEvents(gov <-chan governance.Event, gw <-chan gateway.Event, store <-chan oracle.Event, done <-chan struct{}) {
	for {
		select {
		case ev := <-gov:
			fmt.Printf("[governance] type=%d proposal=%s account=%s value=%d\n", ev.Type, ev.ProposalID.Hex(), ev.Account.Hex(), ev.Value)
		case ev := <-gw:
			fmt.Printf("[gateway]    type=%d proposal=%s account=%s value=%d\n", ev.Type, ev.ProposalID.Hex(), ev.Account.Hex(), ev.Value)
		case ev := <-store:
			fmt.Printf("[store]      type=%d kind=%s validFrom=%d ttl=%s\n", ev.Type, ev.Kind.Hash().Hex(), ev.ValidFrom, ev.TTL)
		case <-done:
			return
		}
	}
}
