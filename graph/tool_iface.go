package graph

import "context"

// Tool is a host-supplied callable the model may invoke via a tool_use
// content block (spec.md §4.6 and GLOSSARY). It lives in the graph package
// (rather than graph/tool, which only builds Tool values) so that Context
// and Dispatch can depend on it without an import cycle.
type Tool interface {
	// Name uniquely identifies the tool; must match ToolUse.Name.
	Name() string

	// Description explains what the tool does. Shown to the model so it
	// can decide when to call the tool. In the original Python source this
	// was the callable's docstring; Go functions don't carry runtime
	// docstrings, so implementations (see graph/tool.FromFunc) take it as
	// an explicit parameter instead.
	Description() string

	// Schema is the JSON Schema describing the tool's input, derived from
	// the wrapped callable's parameter struct (graph/tool.FromFunc) or
	// supplied directly.
	Schema() map[string]any

	// Call invokes the tool with its input destructured from the model's
	// tool_use.input object. Returns the raw result value (string, number,
	// map, slice, or struct) for ContentBlock encoding, or an error which
	// Dispatch converts into an error-status tool_result.
	Call(ctx context.Context, input map[string]any) (any, error)
}
