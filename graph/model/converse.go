package model

import (
	"encoding/json"
	"strings"

	"context"

	"github.com/jcarver989/lattice-llm/graph"
)

// jsonSchemaToolName is the tool name GenerateStructured forces the model
// to call, matching lattice_llm.bedrock.converse.converse_with_structured_output.
const jsonSchemaToolName = "json_schema"

// Converse is the vendor-neutral façade nodes call instead of talking to
// a ChatModel directly, the Go port of lattice_llm.bedrock.converse's
// three module-level functions (converse, converse_with_structured_output,
// and ollama.converse.converse_streaming) collapsed into one type.
type Converse struct {
	Backend ChatModel
}

// New wraps backend in a Converse façade.
func New(backend ChatModel) *Converse {
	return &Converse{Backend: backend}
}

// Generate produces a free-form assistant turn, optionally offering tools
// for the model to call.
func (c *Converse) Generate(ctx context.Context, modelID ModelID, prompt string, messages []graph.Message, tools []graph.Tool, cfg InferenceConfig) (graph.Message, error) {
	req := Request{
		ModelID:  modelID,
		System:   prompt,
		Messages: messages,
		Config:   cfg,
	}
	if len(tools) > 0 {
		req.Tools = &ToolConfig{Tools: toolSpecsFromGraphTools(tools)}
	}

	resp, err := c.Backend.Chat(ctx, req)
	if err != nil {
		return graph.Message{}, &graph.BackendError{ModelID: string(modelID), Cause: err}
	}
	return resp.Message, nil
}

// GenerateStructured forces modelID to respond with input conforming to
// schema, by offering exactly one tool (jsonSchemaToolName) and forcing
// its use. It returns the raw decoded input map; use GenerateStructuredAs
// to unmarshal directly into a Go struct.
func (c *Converse) GenerateStructured(ctx context.Context, modelID ModelID, prompt string, messages []graph.Message, schema map[string]any) (map[string]any, error) {
	req := Request{
		ModelID:  modelID,
		System:   prompt,
		Messages: messages,
		Tools: &ToolConfig{
			Tools: []ToolSpec{{
				Name:        jsonSchemaToolName,
				Description: "Represents the JSON schema for the desired output format.",
				Schema:      schema,
			}},
			Choice: jsonSchemaToolName,
		},
	}

	resp, err := c.Backend.Chat(ctx, req)
	if err != nil {
		return nil, &graph.BackendError{ModelID: string(modelID), Cause: err}
	}
	for _, block := range resp.Message.Content {
		if block.ToolUse != nil && block.ToolUse.Name == jsonSchemaToolName {
			return block.ToolUse.Input, nil
		}
	}
	return nil, &graph.SchemaViolationError{Field: "", Reason: "model did not return a json_schema tool call"}
}

// GenerateStructuredAs calls GenerateStructured and decodes the result
// into a fresh T via a JSON round-trip, the same mapToStruct technique
// used for tool argument binding (graph/tool).
func GenerateStructuredAs[T any](ctx context.Context, c *Converse, modelID ModelID, prompt string, messages []graph.Message, schema map[string]any) (T, error) {
	var zero T
	raw, err := c.GenerateStructured(ctx, modelID, prompt, messages, schema)
	if err != nil {
		return zero, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return zero, &graph.SchemaViolationError{Reason: err.Error()}
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, &graph.SchemaViolationError{Reason: err.Error()}
	}
	return out, nil
}

// GenerateStreaming produces a free-form assistant turn, invoking
// onSentence once per completed sentence (a run of text ending in '.',
// '!', '?', or ';') as it streams, rather than once at the end. The
// returned Message is the complete response, same as Generate would
// return.
func (c *Converse) GenerateStreaming(ctx context.Context, modelID ModelID, prompt string, messages []graph.Message, cfg InferenceConfig, onSentence func(string) error) (graph.Message, error) {
	req := Request{
		ModelID:  modelID,
		System:   prompt,
		Messages: messages,
		Config:   cfg,
	}

	var pending strings.Builder
	flush := func() error {
		s := pending.String()
		if s == "" {
			return nil
		}
		pending.Reset()
		return onSentence(s)
	}

	resp, err := c.Backend.ChatStream(ctx, req, func(chunk string) error {
		for _, r := range chunk {
			pending.WriteRune(r)
			if strings.ContainsRune(".!?;", r) {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return graph.Message{}, &graph.BackendError{ModelID: string(modelID), Cause: err}
	}
	if err := flush(); err != nil {
		return graph.Message{}, err
	}
	return resp.Message, nil
}

func toolSpecsFromGraphTools(tools []graph.Tool) []ToolSpec {
	specs := make([]ToolSpec, len(tools))
	for i, t := range tools {
		specs[i] = ToolSpec{Name: t.Name(), Description: t.Description(), Schema: t.Schema()}
	}
	return specs
}
