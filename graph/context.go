package graph

// Context is caller-supplied and read-only during a single layer. The
// engine never mutates it; it lives for the duration of a session (spec.md
// §3).
type Context struct {
	// UserID is used as the StateStore key for this session.
	UserID string

	// RunID identifies one chatbot.Loop invocation for log correlation
	// across layers (e.g. via google/uuid.NewString()). Optional — the
	// empty string is omitted from log fields rather than treated as an
	// error.
	RunID string

	// Tools are the callables the model may invoke during this session,
	// registered by name. Nodes that call the converse façade pass these
	// through as the tool config; graph/tool.Dispatch uses the same
	// registry to execute model-requested invocations.
	Tools []Tool

	// Values carries opaque caller data (API clients, credentials,
	// feature flags) that the engine itself never inspects.
	Values map[string]any
}

// Value looks up an opaque value stored under key, returning ok=false if
// absent or if Values is nil.
func (c *Context) Value(key string) (any, bool) {
	if c == nil || c.Values == nil {
		return nil, false
	}
	v, ok := c.Values[key]
	return v, ok
}

// ToolByName returns the registered tool with the given name, if any.
func (c *Context) ToolByName(name string) (Tool, bool) {
	if c == nil {
		return nil, false
	}
	for _, t := range c.Tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}
