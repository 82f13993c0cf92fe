// Copyright 2024 The gtrace Authors
// This file is part of the gtrace library.
//
// The gtrace library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gtrace library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gtrace library. If not, see <http://www.gnu.org/licenses/>.

// Package params holds the protocol constants and tunable configuration of
// the trace ledger.
package params

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LedgerConfig is the tunable configuration of a ledger instance.
type LedgerConfig struct {
	// Difficulty is the required number of leading '0' hex characters in a
	// mined block hash.
	Difficulty int `toml:",omitempty"`

	// SessionTimeout is the idle lifetime of an authenticated session.
	SessionTimeout time.Duration `toml:",omitempty"`

	// ReportCacheSize bounds the traceability report cache.
	ReportCacheSize int `toml:",omitempty"`
}

// DefaultLedgerConfig is the configuration used when no file or flag
// overrides it.
var DefaultLedgerConfig = LedgerConfig{
	Difficulty:      DefaultDifficulty,
	SessionTimeout:  30 * time.Minute,
	ReportCacheSize: 128,
}

// Sanitize checks the configuration for values that would make the ledger
// unusable. Difficulty zero is legal (mining accepts any hash); negative
// difficulty is invalid configuration.
func (c *LedgerConfig) Sanitize() error {
	if c.Difficulty < 0 {
		return fmt.Errorf("params: negative difficulty %d", c.Difficulty)
	}
	if c.Difficulty > MaxDifficulty {
		return fmt.Errorf("params: difficulty %d exceeds maximum %d", c.Difficulty, MaxDifficulty)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("params: non-positive session timeout %v", c.SessionTimeout)
	}
	if c.ReportCacheSize <= 0 {
		return fmt.Errorf("params: non-positive report cache size %d", c.ReportCacheSize)
	}
	return nil
}

// DifficultyFromEnv resolves the mining difficulty, preferring the
// BLOCKCHAIN_DIFFICULTY environment variable over the supplied fallback.
// Unparseable values are ignored rather than fatal; the caller's Sanitize
// still rejects out-of-range results.
func DifficultyFromEnv(fallback int) int {
	v := os.Getenv(DifficultyEnvVar)
	if v == "" {
		return fallback
	}
	d, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return d
}
