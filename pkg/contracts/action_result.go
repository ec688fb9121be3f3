package contracts

// AlreadyDoneKey is the output key every mutating connector operation must
// populate: the literal false when the action was freshly performed, or a
// short descriptive string ("created", "deleted", "merged", ...) when the
// target was already in the desired state. A string value is truthy under
// the idempotency convention; false is falsy — this lets callers branch on
// it without parsing.
const AlreadyDoneKey = "alreadyDone"

// AcknowledgedKey is the output key a synthetic rollback ActionResult
// carries for an action the rollback walk classified IRREVERSIBLE: the
// action was acknowledged, not reversed, and the walk continued past it.
const AcknowledgedKey = "acknowledged"

// ActionResult is the outcome of one connector operation.
type ActionResult struct {
	Action       string         `json:"action"`
	System       string         `json:"system"`
	Success      bool           `json:"success"`
	Output       map[string]any `json:"output"`
	RollbackData map[string]any `json:"rollbackData"`
}

// IsAlreadyDone reports whether the action's output carries a truthy
// alreadyDone marker (a non-empty string, per the idempotency convention).
func (a ActionResult) IsAlreadyDone() bool {
	v, ok := a.Output[AlreadyDoneKey]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s != ""
}

// FreshOutput builds an output map for a freshly performed mutation.
func FreshOutput(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[AlreadyDoneKey] = false
	return out
}

// AlreadyDoneOutput builds an output map for a mutation that found the
// target already in the desired state.
func AlreadyDoneOutput(descriptor string, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[AlreadyDoneKey] = descriptor
	return out
}

// AcknowledgedOutput builds the output map for an irreversible action's
// synthetic rollback record.
func AcknowledgedOutput() map[string]any {
	return map[string]any{AcknowledgedKey: true}
}
