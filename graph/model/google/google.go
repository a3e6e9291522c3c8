// Package google adapts the Gemini API (generative-ai-go) to
// model.ChatModel.
package google

import (
	"context"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jcarver989/lattice-llm/graph"
	"github.com/jcarver989/lattice-llm/graph/model"
)

// ChatModel implements model.ChatModel against Google's Gemini API.
type ChatModel struct {
	client    *genai.Client
	modelName string
}

// NewChatModel builds a ChatModel authenticated with apiKey, targeting
// modelName (e.g. "gemini-2.0-flash").
func NewChatModel(ctx context.Context, apiKey, modelName string) (*ChatModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google: new client: %w", err)
	}
	return &ChatModel{client: client, modelName: modelName}, nil
}

// Close releases the underlying API client.
func (m *ChatModel) Close() error { return m.client.Close() }

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, req model.Request) (model.Response, error) {
	gm := m.buildModel(req)

	history, last := convertMessages(req.Messages)
	cs := gm.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, last...)
	if err != nil {
		return model.Response{}, fmt.Errorf("google: %w", err)
	}
	return model.Response{Message: convertResponse(resp)}, nil
}

// ChatStream implements model.ChatModel.
func (m *ChatModel) ChatStream(ctx context.Context, req model.Request, onChunk func(string) error) (model.Response, error) {
	gm := m.buildModel(req)

	history, last := convertMessages(req.Messages)
	cs := gm.StartChat()
	cs.History = history

	iter := cs.SendMessageStream(ctx, last...)
	var final *genai.GenerateContentResponse
	for {
		resp, err := iter.Next()
		if err != nil {
			if err == iterator.Done { // end of stream
				break
			}
			return model.Response{}, fmt.Errorf("google: stream: %w", err)
		}
		final = resp
		for _, text := range extractText(resp) {
			if err := onChunk(text); err != nil {
				return model.Response{}, err
			}
		}
	}
	if final == nil {
		return model.Response{}, fmt.Errorf("google: stream produced no content")
	}
	return model.Response{Message: convertResponse(final)}, nil
}

func (m *ChatModel) buildModel(req model.Request) *genai.GenerativeModel {
	gm := m.client.GenerativeModel(modelNameOrDefault(m.modelName, string(req.ModelID)))
	if req.System != "" {
		gm.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.Config.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(req.Config.MaxTokens))
	}
	if req.Config.Temperature != 0 {
		gm.SetTemperature(float32(req.Config.Temperature))
	}
	if req.Tools != nil && len(req.Tools.Tools) > 0 {
		gm.Tools = convertTools(req.Tools.Tools)
		if req.Tools.Choice != "" {
			gm.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{
					Mode:                 genai.FunctionCallingAny,
					AllowedFunctionNames: []string{req.Tools.Choice},
				},
			}
		}
	}
	return gm
}

func modelNameOrDefault(configured, fromRequest string) string {
	if configured != "" {
		return configured
	}
	return fromRequest
}

// convertMessages splits graph.Message history into Gemini's []*Content
// history plus the final turn's parts, since StartChat().SendMessage only
// takes the newest turn.
func convertMessages(messages []graph.Message) ([]*genai.Content, []genai.Part) {
	var history []*genai.Content
	for i, msg := range messages {
		if msg.Role == graph.RoleSystem {
			continue
		}
		parts := convertParts(msg)
		if i == len(messages)-1 {
			return history, parts
		}
		history = append(history, &genai.Content{Role: geminiRole(msg.Role), Parts: parts})
	}
	return history, nil
}

func geminiRole(r graph.Role) string {
	if r == graph.RoleAssistant {
		return "model"
	}
	return "user"
}

func convertParts(msg graph.Message) []genai.Part {
	var parts []genai.Part
	for _, b := range msg.Content {
		switch {
		case b.Text != nil:
			parts = append(parts, genai.Text(*b.Text))
		case b.ToolUse != nil:
			parts = append(parts, genai.FunctionCall{Name: b.ToolUse.Name, Args: b.ToolUse.Input})
		case b.ToolResult != nil:
			parts = append(parts, genai.FunctionResponse{Name: b.ToolResult.ToolUseID, Response: map[string]any{"content": toolResultText(*b.ToolResult)}})
		}
	}
	return parts
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

func convertTools(tools []model.ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		decls[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(t.Schema),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func convertSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}
	props := map[string]*genai.Schema{}
	if raw, ok := schema["properties"].(map[string]any); ok {
		for name, v := range raw {
			if m, ok := v.(map[string]any); ok {
				props[name] = &genai.Schema{Type: jsonTypeToGenai(m["type"]), Description: stringOrEmpty(m["description"])}
			}
		}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: stringSlice(schema["required"])}
}

func jsonTypeToGenai(v any) genai.Type {
	switch v {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
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

func extractText(resp *genai.GenerateContentResponse) []string {
	var out []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				out = append(out, string(t))
			}
		}
	}
	return out
}

func convertResponse(resp *genai.GenerateContentResponse) graph.Message {
	var blocks []graph.ContentBlock
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch p := part.(type) {
			case genai.Text:
				blocks = append(blocks, graph.TextBlock(string(p)))
			case genai.FunctionCall:
				blocks = append(blocks, graph.ToolUseBlock(p.Name, p.Name, p.Args))
			}
		}
	}
	return graph.Message{Role: graph.RoleAssistant, Content: blocks}
}
