package graph

// State is the per-user application state a Graph's nodes read and update.
//
// The engine treats state as value-typed: every layer starts by taking an
// independent copy via Clone, so that a node failure partway through a
// layer cannot leave the StateStore holding a partially mutated value (the
// atomicity boundary described in spec.md §4.1). Merge is the associative
// combinator nodes (and callers such as chatbot.Loop) use to fold a delta
// into a state; the engine itself adopts whatever non-nil State a node
// returns.
//
// Implementations typically embed BaseState for the Messages/Clone/Merge
// boilerplate and add their own fields plus a Merge override that chains
// into the embedded behavior — see spec.md's open question on exposing
// merge as a user hook rather than a hard-coded combiner.
type State interface {
	// Messages returns the state's message history, in append order.
	Messages() []Message

	// Clone returns an independent copy of the state. Mutating the
	// returned value must never affect the receiver.
	Clone() State

	// Merge folds delta into the receiver and returns the result. The
	// default convention (BaseState) concatenates message sequences and
	// prefers the first non-empty value for scalar fields; Merge must be
	// associative: Merge(Merge(a, b), c) == Merge(a, Merge(b, c)).
	Merge(delta State) State
}

// BaseState is the default State implementation: a message history with no
// additional fields. Application states embed BaseState and override Merge
// to additionally combine their own fields, typically by delegating the
// message half to BaseState.Merge.
type BaseState struct {
	Msgs []Message
}

// NewBaseState builds a BaseState from an initial message history.
func NewBaseState(messages ...Message) BaseState {
	return BaseState{Msgs: messages}
}

// Messages implements State.
func (s BaseState) Messages() []Message { return s.Msgs }

// Clone implements State by copying the message slice into a new backing
// array. Message and ContentBlock values are treated as immutable once
// constructed, so this element-wise copy is sufficient for independence.
func (s BaseState) Clone() State {
	cp := make([]Message, len(s.Msgs))
	copy(cp, s.Msgs)
	return BaseState{Msgs: cp}
}

// Merge implements State's default combinator: concatenate message
// histories. delta must be a type whose Messages() are appended after the
// receiver's; scalar fields do not exist on BaseState itself.
func (s BaseState) Merge(delta State) State {
	if delta == nil {
		return s
	}
	return BaseState{Msgs: MergeMessages(s.Msgs, delta.Messages())}
}

// MergeMessages concatenates two message histories. It is the building
// block every embedding State's custom Merge should call for its message
// field, so that the append-only message-history contract stays uniform
// across application state types.
func MergeMessages(a, b []Message) []Message {
	if len(b) == 0 {
		return a
	}
	out := make([]Message, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// FirstNonEmpty returns a if it is non-empty (not its zero value), else b. It is
// a small helper for writing custom Merge implementations that want the
// "prefer first non-empty scalar" convention spec.md describes for the
// default reducer.
func FirstNonEmpty[T comparable](a, b T) T {
	var zero T
	if a != zero {
		return a
	}
	return b
}
