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

// Package crypto implements the ledger's content addressing: SHA-256 digests
// over a canonical text encoding, rendered as lowercase hexadecimal.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// canonicalTimeLayout renders an ISO-8601 local date-time at fixed nanosecond
// precision. Fixed width keeps producer and verifier byte-identical even when
// a timestamp happens to end in zero nanoseconds.
const canonicalTimeLayout = "2006-01-02T15:04:05.000000000"

// Sum256Hex returns the SHA-256 digest of data as 64 lowercase hex characters.
func Sum256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashConcat digests the concatenation of parts with no separators. All
// ledger hashing goes through this single entry point so that producer and
// verifier can never disagree on the byte layout.
func HashConcat(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashPassword returns the SHA-256 hex digest of the UTF-8 password bytes.
func HashPassword(password string) string {
	return Sum256Hex([]byte(password))
}

// FormatUint renders n as canonical decimal text, no leading zeros.
func FormatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// FormatTime renders t in the canonical timestamp form used for hashing and
// round-trip comparison.
func FormatTime(t time.Time) string {
	return t.Format(canonicalTimeLayout)
}

// ParseTime parses the canonical timestamp form back into a local time.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(canonicalTimeLayout, s, time.Local)
}

// IsHexDigest reports whether s is a 64-character lowercase hex digest.
func IsHexDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// HasDifficultyPrefix reports whether hash carries at least difficulty
// leading '0' characters.
func HasDifficultyPrefix(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > len(hash) {
		return false
	}
	return strings.HasPrefix(hash, strings.Repeat("0", difficulty))
}
