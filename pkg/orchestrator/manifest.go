package orchestrator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// ManifestStep declares one connector call by (system, action) — the
// declarative counterpart to Step, minus the Payload func a YAML document
// can't express. A manifest-loaded workflow forwards ctx.Payload verbatim
// to every step; workflows that need to reshape payload per step are
// registered in Go directly instead.
type ManifestStep struct {
	System string `yaml:"system"`
	Action string `yaml:"action"`
}

// ManifestWorkflow is one workflow entry in a manifest file.
type ManifestWorkflow struct {
	Name          string         `yaml:"name"`
	PayloadSchema string         `yaml:"payloadSchema,omitempty"`
	Steps         []ManifestStep `yaml:"steps"`
}

// Manifest is a declarative workflow registration file — an operator-
// editable alternative to registering Workflow values in Go for the
// common case of a straight-through step sequence with no per-step
// payload reshaping.
type Manifest struct {
	Workflows []ManifestWorkflow `yaml:"workflows"`
}

// LoadManifest reads and parses a workflow manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: reading manifest %q: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("orchestrator: parsing manifest %q: %w", path, err)
	}
	return &m, nil
}

// identityPayload forwards ctx.Payload unchanged — the default Step
// payload builder for manifest-declared workflows.
func identityPayload(ctx contracts.Context) map[string]any {
	return ctx.Payload
}
