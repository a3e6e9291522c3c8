// Package store provides Store implementations — keyed persistence for
// graph.State between layers (spec.md §4.3). The Store and State types
// themselves live in package graph (see graph.Store); this package only
// builds concrete backends against them, the same split graph/tool uses
// for the Tool interface.
package store

import (
	"errors"

	"github.com/jcarver989/lattice-llm/graph"
)

// ErrNotFound names the "key never written" case. No backend in this
// package returns it: Get answers an unwritten key with the
// default-factory value instead.
var ErrNotFound = errors.New("store: key not found")

// Store, State, and DefaultFactory alias graph's definitions so existing
// callers can keep writing store.Store / store.State / store.DefaultFactory.
type (
	Store          = graph.Store
	State          = graph.State
	DefaultFactory = graph.DefaultFactory
)
