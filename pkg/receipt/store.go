// Package receipt persists signed Receipts to durable storage and
// maintains the supplementary hash-chained audit trail.
package receipt

import (
	"context"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// Store persists and retrieves Receipts, keyed by RunID.
type Store interface {
	Save(ctx context.Context, r *contracts.Receipt) error
	Load(ctx context.Context, runID string) (*contracts.Receipt, error)
}
