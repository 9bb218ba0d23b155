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

// proposal-id computes the canonical proposal identifier for a guarded
// action, so governors can agree offline on the identifier to register
// and vote on before executing the action through the gateway.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Eknir/msgOracle/gateway"
	"github.com/Eknir/msgOracle/governance"
	"github.com/Eknir/msgOracle/oracle"
)

func main() {
	var (
		tag        = flag.String("tag", "", "action tag (AG, RK, CGPN, DP, CNTWP, CRMP, CTO, CRO, AL, RL, CMTCP)")
		nonce      = flag.Uint64("nonce", 0, "disambiguating nonce")
		address    = flag.String("address", "", "address argument (roster and ownership actions)")
		pct        = flag.Uint64("pct", 0, "percentage argument (CGPN, CMTCP)")
		ttlSeconds = flag.Uint64("ttl-seconds", 0, "TTL argument in seconds (CNTWP)")
		argHex     = flag.String("arg", "", "raw 32-byte argument slot as hex")
		kind       = flag.String("kind", "", "message kind name (CRMP tuple)")
		price      = flag.String("price", "", "decimal price (CRMP tuple)")
		validFrom  = flag.Uint64("valid-from", 0, "unix seconds the price takes effect (CRMP tuple)")
	)
	flag.Parse()

	if *tag == "" {
		fmt.Fprintln(os.Stderr, "Usage: proposal-id -tag <TAG> -nonce <N> [argument flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	arg, err := argumentSlot(*address, *pct, *ttlSeconds, *argHex, *kind, *price, *validFrom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	id := governance.DeriveID(governance.Tag(*tag), arg, *nonce)
	fmt.Printf("Tag:        %s\n", *tag)
	fmt.Printf("Argument:   %s\n", arg.Hex())
	fmt.Printf("Nonce:      %d\n", *nonce)
	fmt.Printf("ProposalID: %s\n", id.Hex())
}

// argumentSlot builds the 32-byte argument slot from whichever argument
// flag was supplied. The CRMP tuple is pre-hashed into the slot, which
// is also the argHash the gateway expects at execution time.
func argumentSlot(address string, pct, ttlSeconds uint64, argHex, kindName, price string, validFrom uint64) (common.Hash, error) {
	switch {
	case address != "":
		if !common.IsHexAddress(address) {
			return common.Hash{}, fmt.Errorf("invalid address %q", address)
		}
		return governance.AddressArg(common.HexToAddress(address)), nil

	case kindName != "":
		if price == "" {
			return common.Hash{}, fmt.Errorf("-kind requires -price and -valid-from")
		}
		p, err := uint256.FromDecimal(price)
		if err != nil {
			return common.Hash{}, fmt.Errorf("invalid price %q: %v", price, err)
		}
		argHash := gateway.RevertArgsHash(oracle.KindFromString(kindName), p, validFrom)
		fmt.Printf("ArgHash:    %s\n", argHash.Hex())
		return argHash, nil

	case argHex != "":
		b := common.FromHex(argHex)
		if len(b) != common.HashLength {
			return common.Hash{}, fmt.Errorf("argument must be exactly 32 bytes")
		}
		return common.BytesToHash(b), nil

	case ttlSeconds != 0:
		return governance.DurationArg(time.Duration(ttlSeconds) * time.Second), nil

	default:
		// Covers percentage arguments and argument-free tags (CRO):
		// pct defaults to zero, which encodes the empty slot.
		return governance.UintArg(pct), nil
	}
}
