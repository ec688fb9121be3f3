package contracts

// Context bundles the inputs to a single Run: the workflow to execute, the
// caller-declared actor, the operational payload, the live connector
// instances, and any asserted identity attributes. It is constructed once
// per Run invocation and is immutable for the lifetime of that run.
type Context struct {
	Workflow       string
	UserEmail      string
	Payload        map[string]any
	Systems        map[string]any
	UserAttributes map[string]any
}

// Get returns a payload value by key, and whether it was present.
func (c Context) Get(key string) (any, bool) {
	v, ok := c.Payload[key]
	return v, ok
}

// System returns a registered connector by name, and whether it was present.
func (c Context) System(name string) (any, bool) {
	s, ok := c.Systems[name]
	return s, ok
}
