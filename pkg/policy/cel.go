package policy

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/decls"
	"github.com/google/cel-go/common/types"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// celEnv declares the variables a CEL policy expression may reference:
// workflow, userEmail, payload, and userAttributes (the same names as the
// contracts.Context fields, projected into CEL's dynamic typing; Systems
// is not exposed).
func celEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.VariableDecls(
			decls.NewVariable("workflow", types.StringType),
			decls.NewVariable("userEmail", types.StringType),
			decls.NewVariable("payload", types.NewMapType(types.StringType, types.DynType)),
			decls.NewVariable("userAttributes", types.NewMapType(types.StringType, types.DynType)),
		),
	)
}

// NewCELPolicy compiles a CEL boolean expression into a Policy. The
// expression sees workflow, userEmail, payload, and userAttributes; it must
// evaluate to a bool, where true passes. Compilation happens once, at
// construction, so a malformed expression fails fast at startup rather than
// on the first run.
//
// CEL policies exist for operators who want to express a rule declaratively
// without a Go rebuild; they are still wrapped as an ordinary Policy and
// evaluate alongside every other policy in the engine, never short-circuited
// and never privileged over native Go policies.
func NewCELPolicy(name, expr string) (Policy, error) {
	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("policy: cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("policy: cel compile %q: %w", name, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("policy: cel program %q: %w", name, err)
	}

	return func(ctx contracts.Context) contracts.PolicyResult {
		input := map[string]any{
			"workflow":       ctx.Workflow,
			"userEmail":      ctx.UserEmail,
			"payload":        ctx.Payload,
			"userAttributes": ctx.UserAttributes,
		}
		out, _, err := prg.Eval(input)
		if err != nil {
			return contracts.PolicyResult{Policy: name, Passed: false, Reason: fmt.Sprintf("cel evaluation error: %v", err)}
		}
		allowed, ok := out.Value().(bool)
		if !ok {
			return contracts.PolicyResult{Policy: name, Passed: false, Reason: "cel expression did not evaluate to bool"}
		}
		if allowed {
			return contracts.PolicyResult{Policy: name, Passed: true, Reason: fmt.Sprintf("allowed by %s", name)}
		}
		return contracts.PolicyResult{Policy: name, Passed: false, Reason: fmt.Sprintf("denied by %s", name)}
	}, nil
}
