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

import "testing"

func TestLedgerConfigSanitize(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LedgerConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*LedgerConfig) {}},
		{name: "zero difficulty", mutate: func(c *LedgerConfig) { c.Difficulty = 0 }},
		{name: "negative difficulty", mutate: func(c *LedgerConfig) { c.Difficulty = -1 }, wantErr: true},
		{name: "excessive difficulty", mutate: func(c *LedgerConfig) { c.Difficulty = MaxDifficulty + 1 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *LedgerConfig) { c.SessionTimeout = 0 }, wantErr: true},
		{name: "zero cache", mutate: func(c *LedgerConfig) { c.ReportCacheSize = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLedgerConfig
			tt.mutate(&cfg)
			if err := cfg.Sanitize(); (err != nil) != tt.wantErr {
				t.Fatalf("Sanitize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDifficultyFromEnv(t *testing.T) {
	t.Setenv(DifficultyEnvVar, "")
	if got := DifficultyFromEnv(3); got != 3 {
		t.Fatalf("unset env: got %d, want fallback 3", got)
	}
	t.Setenv(DifficultyEnvVar, "2")
	if got := DifficultyFromEnv(4); got != 2 {
		t.Fatalf("env override: got %d, want 2", got)
	}
	t.Setenv(DifficultyEnvVar, "not-a-number")
	if got := DifficultyFromEnv(4); got != 4 {
		t.Fatalf("bad env value: got %d, want fallback 4", got)
	}
}
