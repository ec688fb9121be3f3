package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/russellmiller3/enact/pkg/crypto"
	"github.com/russellmiller3/enact/pkg/orchestrator"
	"github.com/russellmiller3/enact/pkg/receipt"
)

// verifyReport is the structured result of `enact verify --json`.
type verifyReport struct {
	RunID       string `json:"runID"`
	Verified    bool   `json:"verified"`
	Decision    string `json:"decision,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// runVerifyCmd implements `enact verify`. It checks a persisted receipt's
// HMAC signature against the configured secret — it does not require a
// workflow manifest or any connectors, since verification only needs the
// receipt store and the signing secret.
//
// Exit codes:
//
//	0 = signature valid
//	1 = signature invalid or receipt not found
//	2 = runtime error
func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		runID      string
		jsonOutput bool
	)
	cmd.StringVar(&runID, "run-id", "", "RunID of the receipt to verify (REQUIRED)")
	cmd.BoolVar(&jsonOutput, "json", false, "Output the verification report as JSON")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if runID == "" {
		fmt.Fprintln(stderr, "Error: --run-id is required")
		return 2
	}

	cfg, err := orchestrator.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	store, err := receipt.NewFileReceiptStore(cfg.ReceiptsDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	r, err := store.Load(context.Background(), runID)
	if err != nil {
		report := verifyReport{RunID: runID, Verified: false, Reason: err.Error()}
		printVerifyReport(stdout, report, jsonOutput)
		return 1
	}

	ok, err := crypto.Verify(cfg.Secret, cfg.AllowInsecureSecret, r)
	if err != nil {
		report := verifyReport{RunID: runID, Verified: false, Reason: err.Error()}
		printVerifyReport(stdout, report, jsonOutput)
		return 2
	}

	report := verifyReport{RunID: runID, Verified: ok, Decision: string(r.Decision)}
	if !ok {
		report.Reason = "signature does not match receipt content"
	}
	printVerifyReport(stdout, report, jsonOutput)

	if !ok {
		return 1
	}
	return 0
}

func printVerifyReport(w io.Writer, report verifyReport, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	if report.Verified {
		fmt.Fprintf(w, "verified: run %s decision=%s\n", report.RunID, report.Decision)
	} else {
		fmt.Fprintf(w, "NOT verified: run %s: %s\n", report.RunID, report.Reason)
	}
}
