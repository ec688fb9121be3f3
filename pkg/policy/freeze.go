package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// FreezeEnvVar is the environment variable an operator flips to block every
// workflow without redeploying — an incident-response kill switch.
const FreezeEnvVar = "ENACT_FREEZE"

// Freeze builds a policy that fails every run while FreezeEnvVar is set to
// a truthy value (case-insensitive "1", "true", or "yes"). The env var is
// read on every evaluation, not cached at construction, so flipping it
// takes effect on the very next run.
func Freeze() Policy {
	return func(ctx contracts.Context) contracts.PolicyResult {
		if frozen() {
			return contracts.PolicyResult{
				Policy: "freeze",
				Passed: false,
				Reason: fmt.Sprintf("%s is set: all workflows are frozen", FreezeEnvVar),
			}
		}
		return contracts.PolicyResult{Policy: "freeze", Passed: true, Reason: "not frozen"}
	}
}

func frozen() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(FreezeEnvVar))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
