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

package params

const (
	// GenesisPreviousHash is the previous-hash sentinel carried by block zero.
	// It is the single character "0", not a 64-zero digest, and is compared
	// as a string by the chain validation walk.
	GenesisPreviousHash = "0"

	// HashHexLength is the length of a rendered SHA-256 digest.
	HashHexLength = 64

	// DefaultDifficulty is the number of leading zero hex characters a mined
	// block hash must carry on a production ledger. Each additional character
	// multiplies expected mining work by 16.
	DefaultDifficulty = 4

	// TestDifficulty keeps proof-of-work cheap enough for unit tests.
	TestDifficulty = 2

	// MaxDifficulty caps configuration; beyond ~6 leading zeros a single
	// mining call can stall the process for minutes.
	MaxDifficulty = 8
)

// DifficultyEnvVar overrides the configured mining difficulty when set.
const DifficultyEnvVar = "BLOCKCHAIN_DIFFICULTY"
