package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// NewRedisDuplicatePolicy builds a policy that blocks a workflow from
// running twice with the same dedupeKey within ttl — useful when an agent
// might retry a call and the workflow itself isn't naturally idempotent at
// the policy layer (the connector's alreadyDone convention handles
// idempotency once a run is already past the gate; this catches the
// earlier case of two runs racing to start).
//
// dedupeKey extracts the key to dedupe on from the run's Context — callers
// typically key on a payload field unique per logical operation (e.g. a
// ticket ID or PR number), not on the runID, since a new runID is minted
// per attempt.
//
// A Redis outage fails closed: without a way to prove a run is not a
// duplicate, the safer answer is to deny it.
func NewRedisDuplicatePolicy(client *redis.Client, ttl time.Duration, dedupeKey func(contracts.Context) string) Policy {
	return func(ctx contracts.Context) contracts.PolicyResult {
		key := dedupeKey(ctx)
		if key == "" {
			return contracts.PolicyResult{Policy: "no_duplicate", Passed: true, Reason: "no dedupe key for this workflow"}
		}

		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		redisKey := "enact:dedupe:" + ctx.Workflow + ":" + key
		ok, err := client.SetNX(rctx, redisKey, ctx.UserEmail, ttl).Result()
		if err != nil {
			return contracts.PolicyResult{
				Policy: "no_duplicate",
				Passed: false,
				Reason: fmt.Sprintf("duplicate check unavailable, failing closed: %v", err),
			}
		}
		if !ok {
			return contracts.PolicyResult{
				Policy: "no_duplicate",
				Passed: false,
				Reason: fmt.Sprintf("a run for %q is already in flight", key),
			}
		}
		return contracts.PolicyResult{Policy: "no_duplicate", Passed: true, Reason: "first run for this key"}
	}
}
