package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// runRollbackCmd implements `enact rollback`.
//
// Exit codes:
//
//	0 = ROLLED_BACK
//	1 = PARTIAL
//	2 = runtime error
func runRollbackCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("rollback", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		runID      string
		jsonOutput bool
	)
	cmd.StringVar(&runID, "run-id", "", "RunID of the PASSed run to reverse (REQUIRED)")
	cmd.BoolVar(&jsonOutput, "json", false, "Output the receipt as JSON")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if runID == "" {
		fmt.Fprintln(stderr, "Error: --run-id is required")
		return 2
	}

	client, err := buildClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	r, err := client.Rollback(context.Background(), runID)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(stdout, string(data))
	} else {
		fmt.Fprintf(stdout, "rollback of %s -> %s: %s\n", r.OriginalRunID, r.RunID, r.Decision)
		for _, a := range r.ActionsTaken {
			verb := "reversed"
			if ack, _ := a.Output[contracts.AcknowledgedKey].(bool); ack {
				verb = "acknowledged (not reversed)"
			}
			fmt.Fprintf(stdout, "  %s %s.%s\n", verb, a.System, a.Action)
		}
	}

	if r.Decision != "ROLLED_BACK" {
		return 1
	}
	return 0
}
