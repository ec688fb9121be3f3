package orchestrator

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/russellmiller3/enact/pkg/contracts"
	"github.com/russellmiller3/enact/pkg/policy"
)

// Step is one connector call a Workflow performs, in order, once its
// policies have passed.
type Step struct {
	System string
	Action string
	// Payload builds the connector call's input from the run's Context.
	// Most workflows just forward ctx.Payload; Payload exists for the
	// steps that need to shape or rename fields per connector.
	Payload func(ctx contracts.Context) map[string]any
}

// Workflow is a named, fixed sequence of connector Steps guarded by a
// policy Engine and an optional payload JSON Schema. Workflows are
// registered in Go, not discovered — there is no dynamic workflow
// language.
type Workflow struct {
	Name string

	// PayloadSchema, if non-empty, is a JSON Schema (2020-12) that
	// ctx.Payload must satisfy before policies are even evaluated. A
	// malformed payload is rejected before it can influence a policy
	// decision.
	PayloadSchema string

	Policies *policy.Engine
	Steps    []Step

	compiledSchema *jsonschema.Schema
}

// Compile validates the workflow's configuration — in particular,
// compiling PayloadSchema — once, so a bad schema fails at registration
// time rather than on the first run.
func (w *Workflow) Compile() error {
	if w.PayloadSchema == "" {
		return nil
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	schemaURL := fmt.Sprintf("https://enact.local/workflows/%s.schema.json", w.Name)
	if err := c.AddResource(schemaURL, strings.NewReader(w.PayloadSchema)); err != nil {
		return fmt.Errorf("orchestrator: workflow %q: loading payload schema: %w", w.Name, err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("orchestrator: workflow %q: compiling payload schema: %w", w.Name, err)
	}
	w.compiledSchema = compiled
	return nil
}

// ValidatePayload checks payload against the workflow's compiled schema,
// if one is configured. A workflow with no PayloadSchema accepts any
// payload shape.
func (w *Workflow) ValidatePayload(payload map[string]any) error {
	if w.compiledSchema == nil {
		return nil
	}
	if payload == nil {
		return fmt.Errorf("orchestrator: workflow %q: payload is required", w.Name)
	}
	if err := w.compiledSchema.Validate(payload); err != nil {
		return fmt.Errorf("orchestrator: workflow %q: payload schema validation failed: %w", w.Name, err)
	}
	return nil
}
