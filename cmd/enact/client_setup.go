package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/russellmiller3/enact/pkg/connector"
	"github.com/russellmiller3/enact/pkg/connector/sqlref"
	"github.com/russellmiller3/enact/pkg/orchestrator"
	"github.com/russellmiller3/enact/pkg/policy"
	"github.com/russellmiller3/enact/pkg/rollback"
)

// manifestPathEnvVar names the workflow manifest loaded at startup, in
// addition to ENACT_SECRET/ENACT_RECEIPTS_DIR/ENACT_ALLOW_INSECURE_SECRET,
// which orchestrator.LoadConfig reads directly.
const manifestPathEnvVar = "ENACT_MANIFEST"

// buildClient assembles a Client from the environment: config, the
// workflow manifest, a fixed rollback table, and whatever connectors
// this binary ships. It is the single place the CLI commands go to get
// a ready-to-run firewall.
func buildClient() (*orchestrator.Client, error) {
	cfg, err := orchestrator.LoadConfig()
	if err != nil {
		return nil, err
	}

	manifestPath := os.Getenv(manifestPathEnvVar)
	if manifestPath == "" {
		return nil, fmt.Errorf("%s is required", manifestPathEnvVar)
	}
	manifest, err := orchestrator.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	// Every workflow gets the freeze switch for free; nothing else is
	// imposed globally. A workflow wanting stricter gating registers its
	// own policy.Engine by building Workflow values in Go instead of
	// going through the manifest.
	workflows, err := manifest.Build(func(name string) *policy.Engine {
		return policy.NewEngine(policy.Freeze())
	})
	if err != nil {
		return nil, err
	}

	conns, err := buildConnectors()
	if err != nil {
		return nil, err
	}

	client, err := orchestrator.New(cfg, workflows, conns, defaultRollbackTable())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// buildConnectors opens the connectors this binary ships. Today that is
// the sqlref reference "tickets" connector, driven from TICKETS_DATABASE_URL
// when set; with it unset the connector is simply omitted, and any
// workflow step addressed to "tickets" is recorded as a failed action that
// ends the run's steps, rather than the binary refusing to start.
func buildConnectors() ([]connector.Connector, error) {
	var conns []connector.Connector

	if dsn := os.Getenv("TICKETS_DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening tickets database: %w", err)
		}
		conns = append(conns, sqlref.New(db))
	}

	return conns, nil
}

// defaultRollbackTable declares the (system, action) -> inverse dispatch
// this binary knows about. Extending the connector set means extending
// this table, too — an action with no entry here stops a rollback as
// PARTIAL the moment the walk reaches it.
func defaultRollbackTable() rollback.Table {
	return rollback.NewTable().
		Register("tickets", sqlref.ActionCreateTicket, rollback.Entry{
			Classification: rollback.Reversible,
			InverseAction:  sqlref.ActionCloseTicket,
		})
}
