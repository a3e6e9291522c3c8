package graph

import "context"

// Node is a unit of work identified by a string id (GLOSSARY). It receives
// the current Context and State and returns the new State, or nil to mean
// "no change" — a distinct outcome from returning an unmodified copy of the
// input by value (spec.md §9, "Open questions").
type Node interface {
	Run(ctx context.Context, rc *Context, s State) (State, error)
}

// NodeFunc adapts a plain function to the Node interface, the Go analogue
// of the original source's bare `def node(context, state)` functions. When
// registered without an explicit id, the engine attempts to recover the
// function's symbolic name via runtime.FuncForPC, matching Python's
// reliance on `__name__` — see graph.funcName.
type NodeFunc func(ctx context.Context, rc *Context, s State) (State, error)

// Run implements Node.
func (f NodeFunc) Run(ctx context.Context, rc *Context, s State) (State, error) {
	return f(ctx, rc, s)
}
