package graph

import "context"

// Store is an abstract keyed map of application State. Get returns a
// freshly produced default when key has never been written; Set persists
// the latest value, last-writer-wins. Implementations are free to back
// onto durable storage provided they preserve get-latest / last-writer-wins
// semantics (spec.md §4.3, §6).
//
// Store lives in this package (rather than graph/store, which only builds
// Store values) so that Driver can depend on it, and graph/store's
// backends can depend on graph.State, without an import cycle — the same
// pattern graph/tool_iface.go uses for Tool.
type Store interface {
	Get(ctx context.Context, key string) (State, error)
	Set(ctx context.Context, key string, s State) error
}

// DefaultFactory produces a fresh default State for a key that has never
// been written, per spec.md §3 "State is created on first store access via
// a user-supplied default factory."
type DefaultFactory func() State
