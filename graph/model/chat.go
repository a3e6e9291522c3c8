// Package model defines the vendor-neutral LLM backend interface and its
// façade, the Go port of lattice_llm.bedrock (and ollama/converse.py for
// streaming). Concrete vendor adapters live in model/anthropic,
// model/openai, and model/google.
package model

import (
	"context"

	"github.com/jcarver989/lattice-llm/graph"
)

// ModelID names a specific backend model, e.g. "claude-opus-4-6" or
// "gpt-5". It is a string rather than an enum because each vendor owns
// its own namespace of valid values; callers get no compile-time
// exhaustiveness and that's fine.
type ModelID string

// InferenceConfig carries the handful of generation parameters shared
// across vendors. Zero value means "let the vendor default".
type InferenceConfig struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// ToolSpec describes one tool the model may invoke, translated from
// graph.Tool at the Converse boundary so the model package does not need
// to import graph/tool.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// ToolConfig bundles the tools offered to a Chat call. Choice, when
// non-empty, forces the model to call exactly that tool — the trick
// GenerateStructured uses to turn free-form generation into schema-
// constrained output (lattice_llm.bedrock.converse.converse_with_structured_output).
type ToolConfig struct {
	Tools  []ToolSpec
	Choice string
}

// Request is one turn sent to a backend.
type Request struct {
	ModelID  ModelID
	System   string
	Messages []graph.Message
	Config   InferenceConfig
	Tools    *ToolConfig
}

// Response is a backend's reply to a Request. Message is the assistant
// turn: it may carry text content, tool-use content, or both.
type Response struct {
	Message graph.Message
}

// ChatModel is the interface every vendor adapter and FakeBackend
// implements. It mirrors lattice_llm.bedrock.client.BedrockClient's
// converse()/converse_stream() split.
type ChatModel interface {
	// Chat sends a request and returns the complete response.
	Chat(ctx context.Context, req Request) (Response, error)

	// ChatStream sends a request and invokes onChunk with each text
	// fragment as it arrives, then returns the complete response (the
	// same Response Chat would have returned, for callers that want both
	// the incremental text and the final structured result).
	ChatStream(ctx context.Context, req Request, onChunk func(string) error) (Response, error)
}
