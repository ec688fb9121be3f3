package connector

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// Base is an embeddable helper that gives a concrete Connector allowlist
// enforcement and an optional rate limiter, so individual connectors don't
// reimplement either. Every Execute implementation should call Authorize
// first, before doing anything observable to the outside system.
type Base struct {
	system    string
	allowlist map[string]struct{}

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewBase builds a Base for system, permitting exactly the actions in
// allowedActions. An action not in this list is rejected by Authorize
// regardless of what the connector's Execute method would otherwise do —
// the allowlist is enforced ahead of, not alongside, connector logic.
func NewBase(system string, allowedActions ...string) *Base {
	allow := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		allow[a] = struct{}{}
	}
	return &Base{system: system, allowlist: allow}
}

// WithRateLimit attaches a token-bucket limiter: r events per second with
// burst capacity b. Calling Authorize when the bucket is empty returns an
// error rather than blocking — a connector under load should fail the
// action, not stall the run.
func (b *Base) WithRateLimit(r rate.Limit, burst int) *Base {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.limiter = rate.NewLimiter(r, burst)
	return b
}

// System returns the connector's system identifier.
func (b *Base) System() string {
	return b.system
}

// Authorize checks action against the allowlist and, if configured, the
// rate limiter. It is the first thing every Execute implementation must
// call.
func (b *Base) Authorize(ctx context.Context, action string) error {
	if _, ok := b.allowlist[action]; !ok {
		return &contracts.PermissionError{Detail: fmt.Sprintf("connector %s: action %q is not allowlisted", b.system, action)}
	}

	b.mu.Lock()
	limiter := b.limiter
	b.mu.Unlock()
	if limiter != nil && !limiter.Allow() {
		return fmt.Errorf("connector %s: action %q rate limit exceeded", b.system, action)
	}
	return nil
}
