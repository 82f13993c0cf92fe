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

// gtrace is the command-line front-end of the trace ledger.
package main

import (
	"fmt"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/urfave/cli/v2"

	"github.com/tracelink-network/gtrace/params"
)

const clientIdentifier = "gtrace"

var (
	gitCommit = ""
	gitDate   = ""
)

var (
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	DifficultyFlag = &cli.IntFlag{
		Name:  "difficulty",
		Usage: "Mining difficulty (leading zero hex characters); overrides config file and BLOCKCHAIN_DIFFICULTY",
		Value: -1,
	}
	VerbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug",
		Value: 3,
	}
)

func main() {
	app := &cli.App{
		Name:    clientIdentifier,
		Usage:   "the supply-chain trace ledger command line interface",
		Version: params.VersionWithCommit(gitCommit, gitDate),
		Flags: []cli.Flag{
			ConfigFileFlag,
			DifficultyFlag,
			VerbosityFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			demoCommand,
			hashCommand,
			dumpConfigCommand,
			versionCommand,
			licenseCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	lvl := log15.Lvl(ctx.Int(VerbosityFlag.Name)) // 0=crit .. 4=debug
	if lvl > log15.LvlDebug {
		lvl = log15.LvlDebug
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, log15.StderrHandler))
	return nil
}
