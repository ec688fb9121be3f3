// Package policy is the action firewall's gate: an ordered list of native
// Go predicates evaluated against a run's Context. Every registered policy
// runs on every call — a later policy never gets skipped because an
// earlier one already failed, so a receipt's PolicyResults always reflect
// the complete evaluation, not a short-circuited prefix.
package policy

import (
	"github.com/russellmiller3/enact/pkg/contracts"
)

// Policy evaluates one rule against a run's Context. Policies are plain Go
// functions, not a rule DSL — unusual requirements (an external PDP, a CEL
// expression, a Redis-backed duplicate check) still produce a Policy, built
// by one of this package's constructors.
type Policy func(ctx contracts.Context) contracts.PolicyResult

// Named turns a predicate that returns only (passed, reason) into a Policy
// whose PolicyResult reports name.
func Named(name string, fn func(ctx contracts.Context) (bool, string)) Policy {
	return func(ctx contracts.Context) contracts.PolicyResult {
		passed, reason := fn(ctx)
		return contracts.PolicyResult{Policy: name, Passed: passed, Reason: reason}
	}
}

// Engine holds the ordered policy set for one workflow and evaluates all of
// them, every time.
type Engine struct {
	policies []Policy
}

// NewEngine builds an Engine from an ordered policy list. Order is
// significant only for the order PolicyResults appear in the receipt —
// every policy still runs regardless of position.
func NewEngine(policies ...Policy) *Engine {
	return &Engine{policies: policies}
}

// Evaluate runs every policy against ctx and returns their results in
// registration order. It never stops early: a failing policy does not
// prevent the rest from running, so the receipt always carries a complete
// evaluation trail.
func (e *Engine) Evaluate(ctx contracts.Context) []contracts.PolicyResult {
	results := make([]contracts.PolicyResult, 0, len(e.policies))
	for _, p := range e.policies {
		results = append(results, p(ctx))
	}
	return results
}
