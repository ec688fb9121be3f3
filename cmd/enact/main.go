// Command enact is the action firewall's CLI: run a workflow through the
// policy gate and connectors, roll back a passed run, or verify a signed
// receipt's integrity offline.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the CLI entrypoint, factored out from main so tests can drive it
// with captured stdout/stderr instead of the process's own streams.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "run":
		return runRunCmd(args[2:], stdout, stderr)
	case "rollback":
		return runRollbackCmd(args[2:], stdout, stderr)
	case "verify":
		return runVerifyCmd(args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "enact — action firewall for autonomous agents")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  enact <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")
	fmt.Fprintln(w, "  run       Evaluate policies and execute a workflow (--workflow, --user, --payload, --json)")
	fmt.Fprintln(w, "  rollback  Reverse the actions of a previously PASSed run (--run-id, --json)")
	fmt.Fprintln(w, "  verify    Check a persisted receipt's HMAC signature (--run-id, --json)")
	fmt.Fprintln(w, "  help      Show this help")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "ENVIRONMENT:")
	fmt.Fprintln(w, "  ENACT_SECRET                 HMAC signing secret (required, >= 32 chars)")
	fmt.Fprintln(w, "  ENACT_RECEIPTS_DIR           Directory receipts are persisted to (required)")
	fmt.Fprintln(w, "  ENACT_ALLOW_INSECURE_SECRET  Set to \"true\" to waive the secret length check (dev/test only)")
	fmt.Fprintln(w, "  ENACT_MANIFEST                Path to the workflow manifest YAML (required)")
	fmt.Fprintln(w, "  TICKETS_DATABASE_URL          Postgres DSN for the sqlref reference connector (optional)")
}
