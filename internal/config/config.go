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

// Package config loads and validates the runtime configuration of the
// oracle simulator: the initial governance roster and threshold, the
// gateway leader set and bound, and the store's starting TTL.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml/v2"
)

// Config is the TOML-backed runtime configuration.
type Config struct {
	Governors           []string `toml:"governors"`
	ThresholdPercentage uint64   `toml:"threshold_percentage"`
	Leaders             []string `toml:"leaders"`
	BoundPercentage     uint64   `toml:"bound_percentage"`
	Owner               string   `toml:"owner"`
	InitialTTLSeconds   uint64   `toml:"initial_ttl_seconds"`
	VotingWindowSeconds uint64   `toml:"voting_window_seconds"`
}

// Default returns a configuration suitable for a local simulation run.
func Default() *Config {
	return &Config{
		Governors: []string{
			"0x0000000000000000000000000000000000000001",
			"0x0000000000000000000000000000000000000002",
			"0x0000000000000000000000000000000000000003",
			"0x0000000000000000000000000000000000000004",
		},
		ThresholdPercentage: 75,
		Leaders:             []string{"0x0000000000000000000000000000000000000010"},
		BoundPercentage:     10,
		Owner:               "0x0000000000000000000000000000000000000001",
		InitialTTLSeconds:   1000,
		VotingWindowSeconds: 3600,
	}
}

// Load reads and validates a TOML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks internal consistency. Percentages are capped at 100
// here with the same rule the engine and gateway enforce at runtime.
func (c *Config) Validate() error {
	if len(c.Governors) == 0 {
		return fmt.Errorf("at least one governor is required")
	}
	if c.ThresholdPercentage > 100 {
		return fmt.Errorf("threshold_percentage %d exceeds 100", c.ThresholdPercentage)
	}
	if c.BoundPercentage > 100 {
		return fmt.Errorf("bound_percentage %d exceeds 100", c.BoundPercentage)
	}
	if c.InitialTTLSeconds == 0 {
		return fmt.Errorf("initial_ttl_seconds must be positive")
	}
	if c.VotingWindowSeconds == 0 {
		return fmt.Errorf("voting_window_seconds must be positive")
	}
	for _, addr := range c.Governors {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid governor address %q", addr)
		}
	}
	for _, addr := range c.Leaders {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid leader address %q", addr)
		}
	}
	if c.Owner != "" && !common.IsHexAddress(c.Owner) {
		return fmt.Errorf("invalid owner address %q", c.Owner)
	}
	return nil
}

// GovernorAddresses returns the parsed governor set. Call Validate
// first.
func (c *Config) GovernorAddresses() []common.Address {
	return toAddresses(c.Governors)
}

// LeaderAddresses returns the parsed leader set. Call Validate first.
func (c *Config) LeaderAddresses() []common.Address {
	return toAddresses(c.Leaders)
}

// OwnerAddress returns the parsed store owner, or the zero address when
// unset.
func (c *Config) OwnerAddress() common.Address {
	if c.Owner == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.Owner)
}

// InitialTTL returns the starting validity window.
func (c *Config) InitialTTL() time.Duration {
	return time.Duration(c.InitialTTLSeconds) * time.Second
}

// VotingWindow returns the length of the voting window used by the
// simulator when registering proposals.
func (c *Config) VotingWindow() time.Duration {
	return time.Duration(c.VotingWindowSeconds) * time.Second
}

func toAddresses(hexes []string) []common.Address {
	out := make([]common.Address, 0, len(hexes))
	for _, h := range hexes {
		out = append(out, common.HexToAddress(h))
	}
	return out
}
