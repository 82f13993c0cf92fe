// Copyright 2024 The gtrace Authors
// This file is part of gtrace.
//
// gtrace is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// gtrace is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with gtrace. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/tracelink-network/gtrace/metrics"
	"github.com/tracelink-network/gtrace/params"
)

// gtraceConfig is the on-disk configuration layout.
type gtraceConfig struct {
	Ledger  params.LedgerConfig
	Metrics metrics.Config
}

var dumpConfigCommand = &cli.Command{
	Action:    dumpConfig,
	Name:      "dumpconfig",
	Usage:     "Export the effective configuration as TOML",
	ArgsUsage: " ",
	Description: `
The dumpconfig command shows configuration values after resolving the config
file, environment and command line flags, in the file format --config accepts.
`,
}

// resolveConfig layers defaults, the config file, the environment and the
// command line, last writer wins.
func resolveConfig(ctx *cli.Context) (gtraceConfig, error) {
	cfg := gtraceConfig{
		Ledger:  params.DefaultLedgerConfig,
		Metrics: metrics.DefaultConfig,
	}
	if path := ctx.String(ConfigFileFlag.Name); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("loading config file: %w", err)
		}
		defer f.Close()
		if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	cfg.Ledger.Difficulty = params.DifficultyFromEnv(cfg.Ledger.Difficulty)
	if d := ctx.Int(DifficultyFlag.Name); d >= 0 {
		cfg.Ledger.Difficulty = d
	}
	if err := cfg.Ledger.Sanitize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}
	out, err := toml.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
