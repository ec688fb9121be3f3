// Package rollback walks a run's completed actions in reverse and invokes
// each one's registered inverse, stopping at the first action it cannot
// account for.
package rollback

import (
	"context"
	"fmt"

	"github.com/russellmiller3/enact/pkg/connector"
	"github.com/russellmiller3/enact/pkg/contracts"
)

// Result is the outcome of one rollback walk.
type Result struct {
	Decision contracts.Decision
	// Reversed lists, in the order they were produced, the real
	// ActionResults the walk appended to the rollback receipt: the
	// connector-returned result of each successfully dispatched inverse,
	// and a synthetic acknowledged-not-reversed result for each
	// Irreversible action encountered along the way.
	Reversed []contracts.ActionResult
	// StoppedAt is the action name the walk stopped at, set only when
	// Decision is PARTIAL.
	StoppedAt string
	// Reason explains why the walk stopped, set only when Decision is
	// PARTIAL.
	Reason string
}

// Engine reverses a run's ActionsTaken against a fixed dispatch Table.
type Engine struct {
	table      Table
	connectors map[string]connector.Connector
}

// NewEngine builds a rollback Engine. connectors is keyed by system name —
// the same key each connector reports from its System() method.
func NewEngine(table Table, connectors map[string]connector.Connector) *Engine {
	return &Engine{table: table, connectors: connectors}
}

// Rollback walks actions in reverse order, invoking each one's inverse.
// An Irreversible action is acknowledged with a synthetic ActionResult and
// the walk continues past it — it is expected, not a failure. The walk
// stops only at the first action it genuinely cannot account for: a
// missing dispatch entry, a missing connector, or an inverse action that
// itself fails — and reports PARTIAL. Only actions that succeeded in the
// original run (Success == true) are eligible for reversal; failed
// actions never took effect and have nothing to reverse.
func (e *Engine) Rollback(ctx context.Context, actions []contracts.ActionResult) Result {
	reversed := make([]contracts.ActionResult, 0, len(actions))

	for i := len(actions) - 1; i >= 0; i-- {
		action := actions[i]
		if !action.Success {
			continue
		}
		// An action that was already done before this run touched nothing
		// new in this run, so there is nothing for this run to reverse.
		if action.IsAlreadyDone() {
			continue
		}

		entry, ok := e.table.Lookup(action.System, action.Action)
		if !ok {
			return Result{
				Decision:  contracts.DecisionPartial,
				Reversed:  reversed,
				StoppedAt: action.Action,
				Reason:    fmt.Sprintf("no rollback entry registered for %s.%s", action.System, action.Action),
			}
		}

		switch entry.Classification {
		case ReadOnly:
			continue

		case Irreversible:
			reversed = append(reversed, contracts.ActionResult{
				Action:  action.Action,
				System:  action.System,
				Success: true,
				Output:  contracts.AcknowledgedOutput(),
			})
			continue

		case Reversible:
			conn, ok := e.connectors[action.System]
			if !ok {
				return Result{
					Decision:  contracts.DecisionPartial,
					Reversed:  reversed,
					StoppedAt: action.Action,
					Reason:    fmt.Sprintf("no connector registered for system %q", action.System),
				}
			}
			result, err := conn.Execute(ctx, entry.InverseAction, action.RollbackData)
			if err != nil || !result.Success {
				reason := fmt.Sprintf("inverse action %s failed", entry.InverseAction)
				if err != nil {
					reason = fmt.Sprintf("inverse action %s failed: %v", entry.InverseAction, err)
				}
				return Result{
					Decision:  contracts.DecisionPartial,
					Reversed:  reversed,
					StoppedAt: action.Action,
					Reason:    reason,
				}
			}
			reversed = append(reversed, result)

		default:
			return Result{
				Decision:  contracts.DecisionPartial,
				Reversed:  reversed,
				StoppedAt: action.Action,
				Reason:    fmt.Sprintf("unknown classification %q for %s.%s", entry.Classification, action.System, action.Action),
			}
		}
	}

	return Result{Decision: contracts.DecisionRolledBack, Reversed: reversed}
}
