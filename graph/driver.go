package graph

import (
	"context"
	"fmt"
)

// Driver exposes a lazy, pull-based sequence of LayerResults for a single
// (graph, context, store key) session, implementing spec.md §4.2. Go has no
// native generator syntax, so Next replaces Python's
// `Generator[GraphExecutionResult, None, None]`: call it once per layer,
// exactly like the teacher's own preference for an explicit Step-style
// method over a goroutine-backed channel for cooperative, single-threaded
// execution (see DESIGN.md).
type Driver struct {
	graph *Graph
	rc    *Context
	store Store
	key   string

	last []string
	done bool
}

// NewDriver builds a Driver bound to a single (graph, context, store, key)
// session, starting from Start.
func NewDriver(g *Graph, rc *Context, st Store, key string) *Driver {
	return &Driver{graph: g, rc: rc, store: st, key: key, last: []string{Start}}
}

// Next pulls the next layer: load state, execute exactly one layer, persist
// the result, and return it. ok is false once the session has already
// finished (no further layers exist); callers should stop pulling.
//
// The caller may mutate state via the Driver's Store between calls to Next
// (e.g. appending a user message) — Next always re-reads from the store
// first, which is the explicit injection point spec.md §4.2 describes for
// user input.
func (d *Driver) Next(ctx context.Context) (LayerResult, bool, error) {
	if d.done {
		return LayerResult{}, false, nil
	}

	state, err := d.store.Get(ctx, d.key)
	if err != nil {
		return LayerResult{}, false, &StoreError{Key: d.key, Cause: err}
	}

	result, err := d.graph.Execute(ctx, d.rc, state, d.last)
	if err != nil {
		return LayerResult{}, false, err
	}

	d.last = result.NodesExecuted
	if err := d.store.Set(ctx, d.key, result.State); err != nil {
		return LayerResult{}, false, &StoreError{Key: d.key, Cause: err}
	}
	d.done = result.IsFinished

	return result, true, nil
}

// Store exposes the underlying Store so callers can read/mutate state
// between layers (e.g. to append a user's reply before the next Next call).
func (d *Driver) Store() Store { return d.store }

// Key returns the session's store key.
func (d *Driver) Key() string { return d.key }

// Run drives the session to completion, invoking onLayer for every
// LayerResult (including the final one). It is a convenience wrapper for
// callers that don't need to interleave I/O between layers — most
// applications should call Next directly instead, exactly as the chatbot
// loop does.
func (d *Driver) Run(ctx context.Context, onLayer func(LayerResult) error) error {
	for {
		result, ok, err := d.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if onLayer != nil {
			if err := onLayer(result); err != nil {
				return fmt.Errorf("graph: onLayer: %w", err)
			}
		}
		if result.IsFinished {
			return nil
		}
	}
}
