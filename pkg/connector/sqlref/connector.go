// Package sqlref is a reference connector backed by database/sql and the
// lib/pq driver. It exists to exercise the connector contract — allowlist
// enforcement, the alreadyDone idempotency convention, and rollback-data
// capture at action time — against a real database/sql surface, not to
// ship as a product connector. Tests drive it through DATA-DOG/go-sqlmock
// rather than a live Postgres instance.
package sqlref

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/russellmiller3/enact/pkg/connector"
	"github.com/russellmiller3/enact/pkg/contracts"
)

const (
	ActionCreateTicket = "create_ticket"
	ActionCloseTicket  = "close_ticket"
)

// Connector is a minimal "ticket" system backed by a SQL table:
//
//	tickets(id TEXT PRIMARY KEY, title TEXT, status TEXT)
type Connector struct {
	*connector.Base
	db *sql.DB
}

// New wraps an open *sql.DB (real or sqlmock) as a ticket connector.
func New(db *sql.DB) *Connector {
	return &Connector{
		Base: connector.NewBase("tickets", ActionCreateTicket, ActionCloseTicket),
		db:   db,
	}
}

// Execute implements connector.Connector.
func (c *Connector) Execute(ctx context.Context, action string, payload map[string]any) (contracts.ActionResult, error) {
	if err := c.Authorize(ctx, action); err != nil {
		return contracts.ActionResult{}, err
	}

	switch action {
	case ActionCreateTicket:
		return c.createTicket(ctx, payload)
	case ActionCloseTicket:
		return c.closeTicket(ctx, payload)
	default:
		return contracts.ActionResult{}, fmt.Errorf("tickets: unreachable action %q", action)
	}
}

func (c *Connector) createTicket(ctx context.Context, payload map[string]any) (contracts.ActionResult, error) {
	id, _ := payload["id"].(string)
	title, _ := payload["title"].(string)

	var existingStatus string
	err := c.db.QueryRowContext(ctx, `SELECT status FROM tickets WHERE id = $1`, id).Scan(&existingStatus)
	switch {
	case err == sql.ErrNoRows:
		if _, err := c.db.ExecContext(ctx, `INSERT INTO tickets (id, title, status) VALUES ($1, $2, 'open')`, id, title); err != nil {
			return contracts.ActionResult{}, fmt.Errorf("tickets: create %s: %w", id, err)
		}
		return contracts.ActionResult{
			Action:  ActionCreateTicket,
			System:  c.System(),
			Success: true,
			Output:  contracts.FreshOutput(map[string]any{"id": id}),
			// rollback data captured now, at creation time — closing a
			// ticket later needs only the id, but we record title too so
			// a future inverse action ("recreate") has enough to work with.
			RollbackData: map[string]any{"id": id, "title": title},
		}, nil
	case err != nil:
		return contracts.ActionResult{}, fmt.Errorf("tickets: lookup %s: %w", id, err)
	default:
		return contracts.ActionResult{
			Action:  ActionCreateTicket,
			System:  c.System(),
			Success: true,
			Output:  contracts.AlreadyDoneOutput(existingStatus, map[string]any{"id": id}),
		}, nil
	}
}

func (c *Connector) closeTicket(ctx context.Context, payload map[string]any) (contracts.ActionResult, error) {
	id, _ := payload["id"].(string)

	var status string
	if err := c.db.QueryRowContext(ctx, `SELECT status FROM tickets WHERE id = $1`, id).Scan(&status); err != nil {
		return contracts.ActionResult{}, fmt.Errorf("tickets: lookup %s: %w", id, err)
	}
	if status == "closed" {
		return contracts.ActionResult{
			Action:  ActionCloseTicket,
			System:  c.System(),
			Success: true,
			Output:  contracts.AlreadyDoneOutput("closed", map[string]any{"id": id}),
		}, nil
	}

	if _, err := c.db.ExecContext(ctx, `UPDATE tickets SET status = 'closed' WHERE id = $1`, id); err != nil {
		return contracts.ActionResult{}, fmt.Errorf("tickets: close %s: %w", id, err)
	}
	return contracts.ActionResult{
		Action:       ActionCloseTicket,
		System:       c.System(),
		Success:      true,
		Output:       contracts.FreshOutput(map[string]any{"id": id}),
		RollbackData: map[string]any{"id": id, "previousStatus": status},
	}, nil
}
