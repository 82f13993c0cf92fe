package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tracelink-network/gtrace/crypto"
	"github.com/tracelink-network/gtrace/params"
)

var (
	hashCommand = &cli.Command{
		Action:    hashArgs,
		Name:      "hash",
		Usage:     "Print the ledger digest of the concatenated arguments",
		ArgsUsage: "<part>...",
		Description: `
The hash command digests the concatenation of its arguments with the same
canonical SHA-256 encoding the ledger uses for blocks and passwords, and
prints the 64-character lowercase hex result.
`,
	}
	versionCommand = &cli.Command{
		Action:    version,
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Description: `
The output of this command is supposed to be machine-readable.
`,
	}
	licenseCommand = &cli.Command{
		Action:    license,
		Name:      "license",
		Usage:     "Display license information",
		ArgsUsage: " ",
	}
)

func hashArgs(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("hash requires at least one argument")
	}
	fmt.Println(crypto.HashConcat(ctx.Args().Slice()...))
	return nil
}

func version(ctx *cli.Context) error {
	fmt.Println(strings.Title(clientIdentifier))
	fmt.Println("Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Println("Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Println("Git Commit Date:", gitDate)
	}
	fmt.Println("Architecture:", runtime.GOARCH)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	fmt.Printf("GOPATH=%s\n", os.Getenv("GOPATH"))
	fmt.Printf("GOROOT=%s\n", runtime.GOROOT())
	return nil
}

func license(_ *cli.Context) error {
	fmt.Println(`The gtrace library is licensed under the GNU Lesser General Public
License v3.0, the gtrace command applications under the GNU General
Public License v3.0. See the LICENSE and COPYING files.`)
	return nil
}
