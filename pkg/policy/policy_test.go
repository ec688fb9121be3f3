package policy_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmiller3/enact/pkg/contracts"
	"github.com/russellmiller3/enact/pkg/policy"
)

func alwaysPass(name string) policy.Policy {
	return func(contracts.Context) contracts.PolicyResult {
		return contracts.PolicyResult{Policy: name, Passed: true, Reason: "ok"}
	}
}

func alwaysFail(name string) policy.Policy {
	return func(contracts.Context) contracts.PolicyResult {
		return contracts.PolicyResult{Policy: name, Passed: false, Reason: "nope"}
	}
}

// P1: every policy is evaluated regardless of earlier results.
func TestEngine_EvaluateRunsEveryPolicy(t *testing.T) {
	e := policy.NewEngine(alwaysFail("p1"), alwaysPass("p2"), alwaysFail("p3"))
	results := e.Evaluate(contracts.Context{Workflow: "w"})
	require.Len(t, results, 3)
	assert.Equal(t, "p1", results[0].Policy)
	assert.Equal(t, "p2", results[1].Policy)
	assert.Equal(t, "p3", results[2].Policy)
	assert.False(t, results[0].Passed)
	assert.True(t, results[1].Passed)
	assert.False(t, results[2].Passed)
}

func TestEngine_EvaluateEmpty(t *testing.T) {
	e := policy.NewEngine()
	results := e.Evaluate(contracts.Context{})
	assert.Empty(t, results)
}

func TestFreeze_BlocksWhenEnvSet(t *testing.T) {
	t.Setenv(policy.FreezeEnvVar, "true")
	result := policy.Freeze()(contracts.Context{})
	assert.False(t, result.Passed)
}

func TestFreeze_CaseInsensitiveAndWhitespace(t *testing.T) {
	t.Setenv(policy.FreezeEnvVar, "  YES  ")
	result := policy.Freeze()(contracts.Context{})
	assert.False(t, result.Passed)
}

func TestFreeze_PassesWhenUnset(t *testing.T) {
	os.Unsetenv(policy.FreezeEnvVar)
	result := policy.Freeze()(contracts.Context{})
	assert.True(t, result.Passed)
}

func TestNewCELPolicy_EvaluatesExpression(t *testing.T) {
	p, err := policy.NewCELPolicy("not_main_branch", `payload.branch != "main"`)
	require.NoError(t, err)

	pass := p(contracts.Context{Payload: map[string]any{"branch": "agent/fix"}})
	assert.True(t, pass.Passed)

	fail := p(contracts.Context{Payload: map[string]any{"branch": "main"}})
	assert.False(t, fail.Passed)
}

func TestNewCELPolicy_RejectsBadExpression(t *testing.T) {
	_, err := policy.NewCELPolicy("broken", `this is not cel(`)
	assert.Error(t, err)
}

func TestNewCELPolicy_NonBoolResultFailsClosed(t *testing.T) {
	p, err := policy.NewCELPolicy("not_bool", `"hello"`)
	require.NoError(t, err)
	result := p(contracts.Context{})
	assert.False(t, result.Passed)
}
