package graph

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned when an edge or conditional edge resolves to
// an id that is not a member of the graph's nodes (and is not "start" or
// "end").
var ErrUnknownNode = errors.New("graph: unknown node id")

// ErrStoreUnavailable wraps failures from a StateStore's Get/Set, signaling
// that the driver cannot proceed and must propagate to its caller.
var ErrStoreUnavailable = errors.New("graph: state store unavailable")

// UnknownNodeError carries the offending id and the edge source that
// produced it, for UnknownNode diagnostics.
type UnknownNodeError struct {
	Source string
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("graph: edge from %q resolved to unknown node %q", e.Source, e.NodeID)
}

func (e *UnknownNodeError) Unwrap() error { return ErrUnknownNode }

// SchemaViolationError is returned by the converse façade's structured
// output operation when a backend's tool input does not validate against
// the caller-supplied schema.
type SchemaViolationError struct {
	// Field names the schema property that failed validation, if known.
	Field string
	// Reason is a human-readable description of the violation.
	Reason string
}

func (e *SchemaViolationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("graph: schema violation on %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("graph: schema violation: %s", e.Reason)
}

// ToolInvocationError represents a tool callable raising during Dispatch.
// It never propagates out of Dispatch: it is converted into an error-status
// tool_result content block and surfaced to the model instead.
type ToolInvocationError struct {
	ToolName string
	Cause    error
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("graph: tool %q failed: %v", e.ToolName, e.Cause)
}

func (e *ToolInvocationError) Unwrap() error { return e.Cause }

// BackendError wraps an adapter-level failure (network, auth, quota) from a
// ChatModel implementation. It propagates to the Driver's caller, which
// terminates the current layer without advancing the frontier.
type BackendError struct {
	ModelID string
	Cause   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("graph: backend error for model %q: %v", e.ModelID, e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }

// StoreError wraps a StateStore failure with the offending key.
type StoreError struct {
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("graph: store error for key %q: %v", e.Key, e.Cause)
}

func (e *StoreError) Unwrap() error { return errors.Join(ErrStoreUnavailable, e.Cause) }
