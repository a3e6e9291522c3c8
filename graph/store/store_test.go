package store

import "github.com/jcarver989/lattice-llm/graph"

// testState is the shared fixture State used by this package's tests: a
// small struct whose Clone (and, via NewJSONCodec, JSON round trip) can be
// checked independently.
type testState struct {
	Value   string
	Counter int
}

func (s testState) Messages() []graph.Message { return nil }

func (s testState) Clone() State { return s }

func (s testState) Merge(delta State) State {
	if delta == nil {
		return s
	}
	return delta
}

func newTestFactory() DefaultFactory {
	return func() State { return testState{} }
}
