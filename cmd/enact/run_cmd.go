package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/russellmiller3/enact/pkg/identity"
)

// runRunCmd implements `enact run`.
//
// Exit codes:
//
//	0 = PASS
//	1 = BLOCK
//	2 = runtime error
func runRunCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("run", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		workflow    string
		userEmail   string
		token       string
		payloadPath string
		jsonOutput  bool
	)
	cmd.StringVar(&workflow, "workflow", "", "Workflow name to run (REQUIRED)")
	cmd.StringVar(&userEmail, "user", "", "Requesting user's email (required unless --token is given)")
	cmd.StringVar(&token, "token", "", "Bearer token to read caller-declared email/attributes from (claims are NOT verified)")
	cmd.StringVar(&payloadPath, "payload", "", "Path to a JSON payload file, or \"-\" for stdin (REQUIRED)")
	cmd.BoolVar(&jsonOutput, "json", false, "Output the receipt as JSON")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if workflow == "" || payloadPath == "" {
		fmt.Fprintln(stderr, "Error: --workflow and --payload are required")
		return 2
	}
	if userEmail == "" && token == "" {
		fmt.Fprintln(stderr, "Error: one of --user or --token is required")
		return 2
	}

	var userAttributes map[string]any
	if token != "" {
		claims, err := identity.ParseUnverified(token)
		if err != nil {
			fmt.Fprintf(stderr, "Error: parsing --token: %v\n", err)
			return 2
		}
		userAttributes = claims.Attributes
		if userEmail == "" {
			userEmail = claims.Email
		}
	}

	payload, err := readJSONObject(payloadPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: reading payload: %v\n", err)
		return 2
	}

	client, err := buildClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	r, err := client.Run(context.Background(), workflow, userEmail, payload, userAttributes)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(stdout, string(data))
	} else {
		fmt.Fprintf(stdout, "run %s: %s\n", r.RunID, r.Decision)
		for _, pr := range r.PolicyResults {
			status := "pass"
			if !pr.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(stdout, "  policy %-24s %-4s %s\n", pr.Policy, status, pr.Reason)
		}
		for _, a := range r.ActionsTaken {
			fmt.Fprintf(stdout, "  action %s.%s success=%t\n", a.System, a.Action, a.Success)
		}
	}

	if r.Decision != "PASS" {
		return 1
	}
	return 0
}

func readJSONObject(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return payload, nil
}
