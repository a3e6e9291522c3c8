// Package graph implements the layered, breadth-first execution engine
// described in spec.md: a directed graph of Nodes connected by static or
// conditional Edges, executed one layer at a time by a resumable Driver.
package graph

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Start marks "execution has not yet begun." End marks termination. Neither
// is a member of a Graph's nodes (spec.md §3).
const (
	Start = "start"
	End   = "end"
)

// LayerResult is the triple a single Execute call (or Driver.Next pull)
// produces: the state after the layer ran, the ids of the nodes that ran
// (or ["end"]), and whether execution has finished.
type LayerResult struct {
	State         State
	NodesExecuted []string
	IsFinished    bool
}

// Graph is an immutable-after-construction directed graph of Nodes and
// Edges. Build it with AddNode/AddEdge, then execute layers with Execute or
// drive a full session with NewDriver.
type Graph struct {
	nodes    map[string]Node
	order    []string // insertion order, for deterministic iteration where needed
	rootNode string
	edges    map[string][]Destination

	// nodeIDByFuncPtr lets ToNode resolve a NodeFunc reference back to its
	// registered id without requiring Node to carry an ID() method.
	nodeIDByFuncPtr map[uintptr]string

	log *zap.Logger
}

// Option configures a Graph at construction time.
type Option func(*Graph)

// WithLogger attaches a structured logger. The engine emits
// node-enter/node-exit/route-resolved/layer-finished lines at debug level;
// the default is a no-op logger, so observability is opt-in and never
// blocks or panics on the hot path, matching the teacher's own optional
// emit.Emitter.
func WithLogger(l *zap.Logger) Option {
	return func(g *Graph) { g.log = l }
}

// New creates an empty Graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:           make(map[string]Node),
		edges:           make(map[string][]Destination),
		nodeIDByFuncPtr: make(map[uintptr]string),
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NodeOption configures a single AddNode call.
type NodeOption func(*nodeOpts)

type nodeOpts struct {
	isRoot *bool
}

// AsRoot forces (or un-forces, if false) this node to become the graph's
// root. Without it, the first node ever added becomes root (spec.md §4.1).
func AsRoot(isRoot bool) NodeOption {
	return func(o *nodeOpts) { o.isRoot = &isRoot }
}

// AddNode registers a node under id. If id is empty, the engine attempts to
// recover a NodeFunc's symbolic name via runtime reflection (the Go
// analogue of Python's function.__name__); if that fails (closures,
// method values, struct-based Nodes), an explicit id is required and an
// error is returned.
//
// The first node ever added becomes root_node unless AsRoot overrides it.
func (g *Graph) AddNode(id string, n Node, opts ...NodeOption) (string, error) {
	if n == nil {
		return "", fmt.Errorf("graph: AddNode: node must not be nil")
	}
	if id == "" {
		name, ok := funcName(n)
		if !ok {
			return "", fmt.Errorf("graph: AddNode: id required for anonymous/closure/struct nodes")
		}
		id = name
	}
	if id == Start || id == End {
		return "", fmt.Errorf("graph: AddNode: %q is a reserved identifier", id)
	}
	if _, exists := g.nodes[id]; exists {
		return "", fmt.Errorf("graph: AddNode: node id %q already registered", id)
	}

	var cfg nodeOpts
	for _, opt := range opts {
		opt(&cfg)
	}

	g.nodes[id] = n
	g.order = append(g.order, id)
	if fn, ok := n.(NodeFunc); ok {
		g.nodeIDByFuncPtr[reflect.ValueOf(fn).Pointer()] = id
	}

	switch {
	case cfg.isRoot != nil && *cfg.isRoot:
		g.rootNode = id
	case cfg.isRoot == nil && len(g.nodes) == 1:
		g.rootNode = id
	}

	return id, nil
}

// RootNode returns the graph's entry node id. Defined whenever nodes is
// non-empty (spec.md §3 invariant 3).
func (g *Graph) RootNode() string { return g.rootNode }

// AddEdge appends destination to source's outgoing edge list. source may be
// a string id, a registered NodeFunc reference (resolved via the
// func-pointer table recorded by AddNode), or one of the reserved
// Start/End ids.
func (g *Graph) AddEdge(source any, destination Destination) error {
	sourceID, err := g.resolveSourceID(source)
	if err != nil {
		return err
	}
	g.edges[sourceID] = append(g.edges[sourceID], destination)
	return nil
}

func (g *Graph) resolveSourceID(source any) (string, error) {
	switch v := source.(type) {
	case string:
		return v, nil
	case Node:
		id, ok := g.idForNode(v)
		if !ok {
			return "", fmt.Errorf("graph: AddEdge: source node not registered")
		}
		return id, nil
	default:
		return "", fmt.Errorf("graph: AddEdge: source must be a string id or Node, got %T", source)
	}
}

// idForNode resolves a Node value back to its registered id, by function
// pointer for NodeFunc values.
func (g *Graph) idForNode(n Node) (string, bool) {
	if fn, ok := n.(NodeFunc); ok {
		id, ok := g.nodeIDByFuncPtr[reflect.ValueOf(fn).Pointer()]
		return id, ok
	}
	return "", false
}

// funcName recovers a NodeFunc's symbolic name, stripping the package path
// (e.g. "pkg.welcome" -> "welcome"). Returns ok=false for closures (whose
// last name segment is "funcN"), method values (suffix "-fm"), or
// non-NodeFunc nodes.
func funcName(n Node) (string, bool) {
	fn, ok := n.(NodeFunc)
	if !ok {
		return "", false
	}
	pc := reflect.ValueOf(fn).Pointer()
	rf := runtime.FuncForPC(pc)
	if rf == nil {
		return "", false
	}
	full := rf.Name()
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		full = full[idx+1:]
	}
	if full == "" || strings.Contains(full, "func") || strings.HasSuffix(full, "-fm") {
		return "", false
	}
	return full, true
}

// Execute performs exactly one layer of breadth-first execution
// (spec.md §4.1, "the crux"):
//
//  1. Take a deep, structural copy of state.
//  2. Resolve the frontier from fromNodes (["start"] means [root_node]).
//  3. If the frontier is ["end"], return a finished LayerResult.
//  4. Otherwise run every node in the frontier, in order; a non-nil State
//     returned by a node replaces the running state (nil means "no
//     change").
//  5. Return the new LayerResult.
//
// Execute never mutates the state argument in place (spec.md §3 invariant
// 4); its result's State is always a distinct value from the input.
func (g *Graph) Execute(ctx context.Context, rc *Context, state State, fromNodes []string) (LayerResult, error) {
	s := state.Clone()
	log := g.log
	if rc != nil && rc.RunID != "" {
		log = log.With(zap.String("runID", rc.RunID))
	}

	frontier, err := g.resolveFrontier(ctx, rc, s, fromNodes)
	if err != nil {
		return LayerResult{}, err
	}

	if len(frontier) == 1 && frontier[0] == End {
		log.Debug("layer finished", zap.Strings("from", fromNodes), zap.Bool("isFinished", true))
		return LayerResult{State: s, NodesExecuted: []string{End}, IsFinished: true}, nil
	}

	for _, id := range frontier {
		node, ok := g.nodes[id]
		if !ok {
			return LayerResult{}, &UnknownNodeError{Source: "frontier", NodeID: id}
		}
		log.Debug("node enter", zap.String("node", id))
		next, err := node.Run(ctx, rc, s)
		if err != nil {
			return LayerResult{}, fmt.Errorf("graph: node %q: %w", id, err)
		}
		if next != nil {
			s = next
		}
		log.Debug("node exit", zap.String("node", id))
	}

	log.Debug("layer finished", zap.Strings("nodesExecuted", frontier), zap.Bool("isFinished", false))
	return LayerResult{State: s, NodesExecuted: frontier, IsFinished: false}, nil
}

// resolveFrontier computes the next layer's node ids from the previous
// layer's, in discovery order, preserving duplicates (spec.md §4.1 step 2).
func (g *Graph) resolveFrontier(ctx context.Context, rc *Context, s State, fromNodes []string) ([]string, error) {
	if len(fromNodes) == 1 && fromNodes[0] == Start {
		if g.rootNode == "" {
			return nil, fmt.Errorf("graph: no root node registered")
		}
		return []string{g.rootNode}, nil
	}

	var frontier []string
	for _, sourceID := range fromNodes {
		for _, dest := range g.edges[sourceID] {
			id, ok, err := g.resolveDestination(ctx, rc, s, dest)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if id != End {
				if _, known := g.nodes[id]; !known {
					return nil, &UnknownNodeError{Source: sourceID, NodeID: id}
				}
			}
			frontier = append(frontier, id)
		}
	}

	if len(frontier) == 0 {
		return []string{End}, nil
	}
	return frontier, nil
}

// resolveDestination resolves one EdgeDestination to a node id, invoking
// the conditional callable exactly once if present (never recursively —
// spec.md §4.1 "Edge-resolution ordering and tie-breaks").
func (g *Graph) resolveDestination(ctx context.Context, rc *Context, s State, dest Destination) (string, bool, error) {
	switch {
	case dest.cond != nil:
		id, err := dest.cond(ctx, rc, s)
		if err != nil {
			return "", false, err
		}
		if id == "" {
			return "", false, nil
		}
		g.log.Debug("route resolved", zap.String("to", id))
		return id, true, nil
	case dest.node != nil:
		id, ok := g.idForNode(dest.node)
		if !ok {
			return "", false, fmt.Errorf("graph: ToNode destination references an unregistered node")
		}
		return id, true, nil
	default:
		return dest.id, true, nil
	}
}
