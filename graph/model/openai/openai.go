// Package openai adapts the OpenAI Chat Completions API to model.ChatModel.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jcarver989/lattice-llm/graph"
	"github.com/jcarver989/lattice-llm/graph/model"
)

// ChatModel implements model.ChatModel against OpenAI's Chat Completions
// API.
type ChatModel struct {
	client *openai.Client
}

// NewChatModel builds a ChatModel authenticated with apiKey.
func NewChatModel(apiKey string) *ChatModel {
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &ChatModel{client: &c}
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, req model.Request) (model.Response, error) {
	params := m.buildParams(req)

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return model.Response{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Response{}, fmt.Errorf("openai: response had no choices")
	}
	return model.Response{Message: convertResponse(resp.Choices[0].Message)}, nil
}

// ChatStream implements model.ChatModel, forwarding content deltas to
// onChunk as they arrive and reassembling the final message (including
// any tool calls, which OpenAI streams as argument fragments).
func (m *ChatModel) ChatStream(ctx context.Context, req model.Request, onChunk func(string) error) (model.Response, error) {
	params := m.buildParams(req)

	stream := m.client.Chat.Completions.NewStreaming(ctx, params)
	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 {
			if text := chunk.Choices[0].Delta.Content; text != "" {
				if err := onChunk(text); err != nil {
					return model.Response{}, err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return model.Response{}, fmt.Errorf("openai: stream: %w", err)
	}
	if len(acc.Choices) == 0 {
		return model.Response{}, fmt.Errorf("openai: stream produced no choices")
	}
	return model.Response{Message: convertResponse(acc.Choices[0].Message)}, nil
}

func (m *ChatModel) buildParams(req model.Request) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, convertMessages(req.Messages)...)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.ModelID),
		Messages: messages,
	}
	if req.Config.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.Config.MaxTokens))
	}
	if req.Config.Temperature != 0 {
		params.Temperature = openai.Float(req.Config.Temperature)
	}
	if req.Tools != nil && len(req.Tools.Tools) > 0 {
		params.Tools = convertTools(req.Tools.Tools)
		if req.Tools.Choice != "" {
			params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
				OfFunctionToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
					Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: req.Tools.Choice},
				},
			}
		}
	}
	return params
}

func convertMessages(messages []graph.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case graph.RoleSystem:
			result = append(result, openai.SystemMessage(msg.TextContent()))
		case graph.RoleAssistant:
			result = append(result, convertAssistantMessage(msg))
		default:
			result = append(result, convertUserOrToolMessage(msg))
		}
	}
	return result
}

func convertAssistantMessage(msg graph.Message) openai.ChatCompletionMessageParamUnion {
	asst := openai.ChatCompletionAssistantMessageParam{Content: openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(msg.TextContent())}}
	for _, tu := range msg.ToolUseBlocks() {
		args, _ := json.Marshal(tu.Input)
		asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: tu.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tu.Name,
				Arguments: string(args),
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &asst}
}

func convertUserOrToolMessage(msg graph.Message) openai.ChatCompletionMessageParamUnion {
	for _, b := range msg.Content {
		if b.ToolResult != nil {
			return openai.ToolMessage(toolResultText(*b.ToolResult), b.ToolResult.ToolUseID)
		}
	}
	return openai.UserMessage(msg.TextContent())
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

func convertTools(tools []model.ToolSpec) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		result[i] = openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(t.Schema),
			},
		}
	}
	return result
}

func convertResponse(msg openai.ChatCompletionMessage) graph.Message {
	var blocks []graph.ContentBlock
	if msg.Content != "" {
		blocks = append(blocks, graph.TextBlock(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		var input map[string]any
		_ = json.Unmarshal([]byte(tc.Function.Arguments), &input)
		blocks = append(blocks, graph.ToolUseBlock(tc.ID, tc.Function.Name, input))
	}
	return graph.Message{Role: graph.RoleAssistant, Content: blocks}
}
