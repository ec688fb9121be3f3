package orchestrator

import (
	"fmt"

	"github.com/russellmiller3/enact/pkg/policy"
)

// Build turns every manifest entry into a compiled Workflow, assigning
// each one the policy.Engine that engineFor returns for its name. A nil
// engine is treated as "no policies" — every run passes the gate
// trivially — which is a legitimate configuration for a workflow governed
// entirely by, say, Freeze() registered globally elsewhere, but callers
// should not reach it by accident.
func (m *Manifest) Build(engineFor func(name string) *policy.Engine) ([]*Workflow, error) {
	workflows := make([]*Workflow, 0, len(m.Workflows))
	for _, mw := range m.Workflows {
		steps := make([]Step, 0, len(mw.Steps))
		for _, ms := range mw.Steps {
			steps = append(steps, Step{System: ms.System, Action: ms.Action, Payload: identityPayload})
		}

		engine := engineFor(mw.Name)
		if engine == nil {
			engine = policy.NewEngine()
		}

		w := &Workflow{
			Name:          mw.Name,
			PayloadSchema: mw.PayloadSchema,
			Policies:      engine,
			Steps:         steps,
		}
		if err := w.Compile(); err != nil {
			return nil, fmt.Errorf("orchestrator: building workflow %q from manifest: %w", mw.Name, err)
		}
		workflows = append(workflows, w)
	}
	return workflows, nil
}
