//go:build property
// +build property

package policy_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/russellmiller3/enact/pkg/contracts"
	"github.com/russellmiller3/enact/pkg/policy"
)

// TestEngine_EvaluatesEveryPolicyProperty is the property-based form of
// P1: the engine never short-circuits — every registered policy runs and
// contributes a result, regardless of how many earlier policies failed.
func TestEngine_EvaluatesEveryPolicyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every policy is evaluated regardless of earlier failures", prop.ForAll(
		func(outcomes []bool) bool {
			policies := make([]policy.Policy, len(outcomes))
			for i, pass := range outcomes {
				i, pass := i, pass
				policies[i] = func(contracts.Context) contracts.PolicyResult {
					return contracts.PolicyResult{Policy: "p", Passed: pass}
				}
			}
			engine := policy.NewEngine(policies...)
			results := engine.Evaluate(contracts.Context{})
			if len(results) != len(outcomes) {
				return false
			}
			for i, r := range results {
				if r.Passed != outcomes[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

// TestAllPassed_MatchesManualConjunctionProperty checks AllPassed against
// a direct boolean AND over the same outcomes, for any combination.
func TestAllPassed_MatchesManualConjunctionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("AllPassed is the conjunction of every result", prop.ForAll(
		func(outcomes []bool) bool {
			results := make([]contracts.PolicyResult, len(outcomes))
			want := true
			for i, pass := range outcomes {
				results[i] = contracts.PolicyResult{Passed: pass}
				want = want && pass
			}
			return contracts.AllPassed(results) == want
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
