// Package connector defines the contract every external-system adapter
// must satisfy to be called from an Enact workflow. A connector exposes a
// fixed, named set of actions — never an arbitrary remote call — and every
// operation is allowlist-gated before it touches the outside world.
package connector

import (
	"context"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// Connector executes one named action against one external system.
// Implementations are expected to embed Base for allowlist enforcement and
// optional rate limiting, then implement Execute for their own actions.
type Connector interface {
	// System is the system identifier this connector speaks for (e.g.
	// "github", "jira") — it becomes ActionResult.System in every result
	// this connector produces.
	System() string

	// Execute runs action with payload and returns the ActionResult to
	// attach to the run's receipt. Execute must populate RollbackData at
	// the time of the action, not retroactively — a caller inspecting the
	// result after the fact cannot recover state Execute didn't capture.
	Execute(ctx context.Context, action string, payload map[string]any) (contracts.ActionResult, error)
}
