// Package anthropic adapts Anthropic's Claude API to model.ChatModel.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jcarver989/lattice-llm/graph"
	"github.com/jcarver989/lattice-llm/graph/model"
)

// defaultMaxTokens is used when a Request's InferenceConfig.MaxTokens is
// left at its zero value.
const defaultMaxTokens = 4096

// ChatModel implements model.ChatModel against Anthropic's Messages API.
type ChatModel struct {
	client *anthropicsdk.Client
}

// NewChatModel builds a ChatModel authenticated with apiKey.
func NewChatModel(apiKey string) *ChatModel {
	c := anthropicsdk.NewClient(option.WithAPIKey(apiKey))
	return &ChatModel{client: &c}
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, req model.Request) (model.Response, error) {
	params := m.buildParams(req)

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return model.Response{}, fmt.Errorf("anthropic: %w", err)
	}
	return model.Response{Message: convertResponse(resp)}, nil
}

// ChatStream implements model.ChatModel, accumulating text deltas and
// invoking onChunk as they arrive.
func (m *ChatModel) ChatStream(ctx context.Context, req model.Request, onChunk func(string) error) (model.Response, error) {
	params := m.buildParams(req)

	stream := m.client.Messages.NewStreaming(ctx, params)
	acc := anthropicsdk.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := acc.Accumulate(event); err != nil {
			return model.Response{}, fmt.Errorf("anthropic: accumulate stream event: %w", err)
		}
		if delta, ok := event.AsAny().(anthropicsdk.ContentBlockDeltaEvent); ok {
			if text := delta.Delta.Text; text != "" {
				if err := onChunk(text); err != nil {
					return model.Response{}, err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return model.Response{}, fmt.Errorf("anthropic: stream: %w", err)
	}
	return model.Response{Message: convertResponse(&acc)}, nil
}

func (m *ChatModel) buildParams(req model.Request) anthropicsdk.MessageNewParams {
	maxTokens := int64(req.Config.MaxTokens)
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(req.ModelID),
		Messages:  convertMessages(req.Messages),
		MaxTokens: maxTokens,
	}
	if req.Config.Temperature != 0 {
		params.Temperature = anthropicsdk.Float(req.Config.Temperature)
	}
	if req.System != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: req.System}}
	}
	if req.Tools != nil && len(req.Tools.Tools) > 0 {
		params.Tools = convertTools(req.Tools.Tools)
		if req.Tools.Choice != "" {
			params.ToolChoice = anthropicsdk.ToolChoiceUnionParam{
				OfTool: &anthropicsdk.ToolChoiceToolParam{Name: req.Tools.Choice},
			}
		}
	}
	return params
}

// convertMessages translates graph.Message (content-block form) into
// Anthropic's MessageParam, handling text, tool-use, and tool-result
// blocks in either direction.
func convertMessages(messages []graph.Message) []anthropicsdk.MessageParam {
	result := make([]anthropicsdk.MessageParam, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == graph.RoleSystem {
			continue // system-role messages are skipped; params.System comes from Request.System
		}

		blocks := make([]anthropicsdk.ContentBlockParamUnion, 0, len(msg.Content))
		for _, b := range msg.Content {
			switch {
			case b.Text != nil:
				blocks = append(blocks, anthropicsdk.NewTextBlock(*b.Text))
			case b.ToolUse != nil:
				blocks = append(blocks, anthropicsdk.NewToolUseBlock(b.ToolUse.ID, b.ToolUse.Input, b.ToolUse.Name))
			case b.ToolResult != nil:
				blocks = append(blocks, anthropicsdk.NewToolResultBlock(b.ToolResult.ToolUseID, toolResultText(*b.ToolResult), b.ToolResult.Status == graph.ToolResultError))
			}
		}

		switch msg.Role {
		case graph.RoleAssistant:
			result = append(result, anthropicsdk.NewAssistantMessage(blocks...))
		default:
			result = append(result, anthropicsdk.NewUserMessage(blocks...))
		}
	}
	return result
}

func toolResultText(tr graph.ToolResult) string {
	var out string
	for _, b := range tr.Content {
		if b.Text != nil {
			if out != "" {
				out += "\n"
			}
			out += *b.Text
		}
	}
	return out
}

func convertTools(tools []model.ToolSpec) []anthropicsdk.ToolUnionParam {
	result := make([]anthropicsdk.ToolUnionParam, len(tools))
	for i, t := range tools {
		var properties any
		var required []string
		if t.Schema != nil {
			properties = t.Schema["properties"]
			required = stringSlice(t.Schema["required"])
		}
		result[i] = anthropicsdk.ToolUnionParam{
			OfTool: &anthropicsdk.ToolParam{
				Name:        t.Name,
				Description: anthropicsdk.String(t.Description),
				InputSchema: anthropicsdk.ToolInputSchemaParam{Properties: properties, Required: required},
			},
		}
	}
	return result
}

func stringSlice(v any) []string {
	switch req := v.(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, item := range req {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func convertResponse(resp *anthropicsdk.Message) graph.Message {
	var blocks []graph.ContentBlock
	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropicsdk.TextBlock:
			blocks = append(blocks, graph.TextBlock(b.Text))
		case anthropicsdk.ToolUseBlock:
			var input map[string]any
			_ = json.Unmarshal(b.Input, &input)
			blocks = append(blocks, graph.ToolUseBlock(b.ID, b.Name, input))
		}
	}
	return graph.Message{Role: graph.RoleAssistant, Content: blocks}
}
