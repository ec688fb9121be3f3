// Package orchestrator wires the policy gate, the connector contract, the
// rollback engine, and receipt persistence into the two operations an
// agent actually calls: Run and Rollback.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/russellmiller3/enact/pkg/connector"
	"github.com/russellmiller3/enact/pkg/contracts"
	"github.com/russellmiller3/enact/pkg/crypto"
	"github.com/russellmiller3/enact/pkg/observability"
	"github.com/russellmiller3/enact/pkg/receipt"
	"github.com/russellmiller3/enact/pkg/rollback"
)

// Client is the action firewall's single entry point.
type Client struct {
	workflows  map[string]*Workflow
	connectors map[string]connector.Connector
	signer     crypto.Signer
	store      receipt.Store
	audit      *receipt.AuditLog
	rollback   *rollback.Engine
	obs        *observability.Provider
}

// WithObservability attaches an observability.Provider to the client.
// Without one, Run and Rollback still work — spans and metrics are
// simply not recorded.
func (c *Client) WithObservability(p *observability.Provider) *Client {
	c.obs = p
	return c
}

// currentTime is the run clock. It is a package-level var, not a bare
// time.Now() call, so tests can override it without threading a clock
// through every constructor.
var currentTime = func() time.Time { return time.Now().UTC() }

// New builds a Client. cfg must carry a valid signing secret and a usable
// receipts directory, from which New builds the signer and the receipt
// store; workflows and connectors are registered up front and looked up
// by name/system at run time.
func New(cfg Config, workflows []*Workflow, connectors []connector.Connector, table rollback.Table) (*Client, error) {
	signer, err := crypto.NewHMACSigner(cfg.Secret, cfg.AllowInsecureSecret)
	if err != nil {
		return nil, &contracts.ConfigurationError{Detail: err.Error()}
	}
	store, err := receipt.NewFileReceiptStore(cfg.ReceiptsDir)
	if err != nil {
		return nil, &contracts.ConfigurationError{Detail: err.Error()}
	}

	wfs := make(map[string]*Workflow, len(workflows))
	for _, w := range workflows {
		if err := w.Compile(); err != nil {
			return nil, err
		}
		wfs[w.Name] = w
	}
	conns := make(map[string]connector.Connector, len(connectors))
	for _, c := range connectors {
		conns[c.System()] = c
	}

	return &Client{
		workflows:  wfs,
		connectors: conns,
		signer:     signer,
		store:      store,
		audit:      receipt.NewAuditLog(),
		rollback:   rollback.NewEngine(table, conns),
	}, nil
}

// Run evaluates workflowName's policies against payload, then — only if
// every policy passes — executes its steps in order against the
// registered connectors. The resulting Receipt is signed, persisted, and
// returned whether the run passed or was blocked; a blocked run still
// produces a complete, signed audit record of why.
func (c *Client) Run(ctx context.Context, workflowName, userEmail string, payload, userAttributes map[string]any) (result *contracts.Receipt, err error) {
	wf, ok := c.workflows[workflowName]
	if !ok {
		return nil, fmt.Errorf("orchestrator: unknown workflow %q", workflowName)
	}

	if c.obs != nil {
		var end func(decision string)
		ctx, end = c.obs.StartRun(ctx, "run", workflowName)
		defer func() {
			decision := "ERROR"
			if result != nil {
				decision = string(result.Decision)
			}
			end(decision)
		}()
	}

	if err := wf.ValidatePayload(payload); err != nil {
		return nil, err
	}

	runCtx := contracts.Context{
		Workflow:       workflowName,
		UserEmail:      userEmail,
		Payload:        payload,
		UserAttributes: userAttributes,
		Systems:        c.systemsSnapshot(),
	}

	policyResults := wf.Policies.Evaluate(runCtx)

	r := &contracts.Receipt{
		RunID:          uuid.NewString(),
		Workflow:       workflowName,
		UserEmail:      userEmail,
		Payload:        payload,
		UserAttributes: userAttributes,
		PolicyResults:  policyResults,
		Timestamp:      currentTime(),
	}

	if !contracts.AllPassed(policyResults) {
		r.Decision = contracts.DecisionBlock
		return c.finalize(ctx, r)
	}

	r.Decision = contracts.DecisionPass
	actions := make([]contracts.ActionResult, 0, len(wf.Steps))
	for _, step := range wf.Steps {
		conn, ok := c.connectors[step.System]
		if !ok {
			actions = append(actions, contracts.ActionResult{
				Action: step.Action, System: step.System, Success: false,
			})
			break
		}
		stepResult, err := conn.Execute(ctx, step.Action, step.Payload(runCtx))
		if err != nil {
			stepResult.Action, stepResult.System, stepResult.Success = step.Action, step.System, false
			actions = append(actions, stepResult)
			break
		}
		actions = append(actions, stepResult)
	}
	r.ActionsTaken = actions

	return c.finalize(ctx, r)
}

// Rollback reverses the actions recorded in the receipt for runID. The
// receipt's signature is verified before anything else: a tampered
// receipt cannot be used to drive a rollback. Only a PASS decision can be
// rolled back — there is nothing to reverse from a BLOCK, and rolling
// back an already-ROLLED_BACK or PARTIAL run would replay inverse actions
// that already ran.
func (c *Client) Rollback(ctx context.Context, runID string) (result *contracts.Receipt, err error) {
	if c.obs != nil {
		var end func(decision string)
		ctx, end = c.obs.StartRun(ctx, "rollback", runID)
		defer func() {
			decision := "ERROR"
			if result != nil {
				decision = string(result.Decision)
			}
			end(decision)
		}()
	}

	original, err := c.store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}

	ok, err := c.signer.Verify(original)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &contracts.ReceiptIntegrityError{RunID: runID}
	}

	if original.Decision != contracts.DecisionPass {
		return nil, fmt.Errorf("orchestrator: run %q has decision %s, nothing to roll back", runID, original.Decision)
	}

	rbResult := c.rollback.Rollback(ctx, original.ActionsTaken)

	rolledBack := &contracts.Receipt{
		RunID:         uuid.NewString(),
		Workflow:      original.Workflow,
		UserEmail:     original.UserEmail,
		Payload:       original.Payload,
		PolicyResults: original.PolicyResults,
		Decision:      rbResult.Decision,
		OriginalRunID: original.RunID,
		Timestamp:     currentTime(),
	}
	rolledBack.ActionsTaken = append(rolledBack.ActionsTaken, rbResult.Reversed...)

	return c.finalize(ctx, rolledBack)
}

func (c *Client) finalize(ctx context.Context, r *contracts.Receipt) (*contracts.Receipt, error) {
	if err := c.signer.Sign(r); err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, r); err != nil {
		return nil, err
	}
	if _, err := c.audit.Append(r.RunID, string(r.Decision)); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Client) systemsSnapshot() map[string]any {
	systems := make(map[string]any, len(c.connectors))
	for name, conn := range c.connectors {
		systems[name] = conn
	}
	return systems
}
