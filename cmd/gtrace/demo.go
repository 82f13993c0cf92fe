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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/tracelink-network/gtrace/compliance"
	"github.com/tracelink-network/gtrace/core"
	"github.com/tracelink-network/gtrace/core/types"
	"github.com/tracelink-network/gtrace/internal/ledgerapi"
	"github.com/tracelink-network/gtrace/session"
)

var demoCommand = &cli.Command{
	Action:    runDemo,
	Name:      "demo",
	Usage:     "Run a create-transfer-verify pipeline on a fresh ledger and print the reports",
	ArgsUsage: " ",
	Description: `
The demo command exercises the whole stack end to end: it mines a product
creation, a transfer and a verification into a fresh ledger, then prints the
traceability report, the compliance report and the optimization
recommendations.
`,
}

func runDemo(ctx *cli.Context) error {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}
	chain, err := core.NewBlockchainManager(cfg.Ledger.Difficulty)
	if err != nil {
		return err
	}
	store := session.NewStore(cfg.Ledger.SessionTimeout)
	auth := session.NewAuthenticator(store)
	auth.AddUser(session.NewUser("admin", "admin123", session.RoleManager))
	svc := ledgerapi.NewService(chain, auth)

	svc.Compliance().Register(compliance.Requirement{
		ID:          "REQ-ORIGIN",
		Description: "Every product creation names an origin",
		Rule:        compliance.RuleOriginRequired,
	})

	const productID = "PROD-COFFEE-001"
	steps := []struct {
		label string
		tx    *types.Transaction
	}{
		{"creation", types.NewTransaction(ledgerapi.NewTransactionID(), types.ProductCreation{
			SupplierID: "SUP-ANDES", ProductID: productID,
			ProductName: "Single-origin coffee", Origin: "Colombia",
		})},
		{"transfer", types.NewTransaction(ledgerapi.NewTransactionID(), types.ProductTransfer{
			FromParty: "SUP-ANDES", ToParty: "RET-NORTH", ProductID: productID,
			FromLocation: "Colombia", ToLocation: "Rotterdam warehouse",
			NewStatus: types.StatusInTransit,
		})},
		{"verification", types.NewTransaction(ledgerapi.NewTransactionID(), types.ProductVerification{
			VerifierID: "AUD-01", ProductID: productID, Result: true,
			Notes: "seal intact",
		})},
	}
	background := context.Background()
	for _, step := range steps {
		if err := svc.SubmitTransaction(step.tx); err != nil {
			return fmt.Errorf("submitting %s: %w", step.label, err)
		}
		start := time.Now()
		block, err := svc.MineBlock(background)
		if err != nil {
			return fmt.Errorf("mining %s: %w", step.label, err)
		}
		fmt.Printf("mined block %d (%s) in %v\n", block.Index(), step.label, time.Since(start).Round(time.Millisecond))
	}

	if err := svc.CheckIntegrity(); err != nil {
		return err
	}
	color.Green("ledger integrity intact (%d blocks)", len(chain.Chain()))

	report, err := svc.TraceReport(productID)
	if err != nil {
		return err
	}
	color.Cyan("\nTraceability report for %s", productID)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Origin", "Location", "Status", "Events", "Complete"})
	table.Append([]string{
		report.Origin, report.CurrentLocation, string(report.CurrentStatus),
		fmt.Sprintf("%d", len(report.Events)), fmt.Sprintf("%t", report.Complete),
	})
	table.Render()

	authRes, err := svc.VerifyAuthenticity(productID)
	if err != nil {
		return err
	}
	color.Cyan("\nAuthenticity: %s", authRes.Status)
	for _, reason := range authRes.Reasons {
		fmt.Println("  -", reason)
	}

	compReport, err := svc.EvaluateCompliance(background)
	if err != nil {
		return err
	}
	color.Cyan("\nCompliance")
	compTable := tablewriter.NewWriter(os.Stdout)
	compTable.SetHeader([]string{"Requirement", "Passed", "Offenders"})
	for _, res := range compReport.Results {
		compTable.Append([]string{res.RequirementID, fmt.Sprintf("%t", res.Passed), fmt.Sprintf("%d", len(res.Offenders))})
	}
	compTable.Render()

	recs := svc.Recommendations()
	color.Cyan("\nRecommendations (%d)", len(recs))
	for _, rec := range recs {
		fmt.Printf("  [%s] %s (%s)\n", rec.Type, rec.Suggestion, rec.ExpectedImpact)
	}
	return nil
}
