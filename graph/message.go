package graph

// Role identifies the sender of a Message.
type Role string

// Standard roles for a conversation, matching the conventions used by
// every major LLM provider's chat API.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is an ordered sequence of content blocks sent by a single Role.
//
// Wire shape (see SPEC_FULL.md §3):
//
//	{"role": "user"|"assistant"|"system", "content": [ContentBlock...]}
type Message struct {
	Role    Role          `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one variant of: plain text, a tool-use request from the
// assistant, or a tool-result response to a prior tool use. Exactly one of
// Text, ToolUse, ToolResult is set.
type ContentBlock struct {
	Text       *string     `json:"text,omitempty"`
	ToolUse    *ToolUse    `json:"toolUse,omitempty"`
	ToolResult *ToolResult `json:"toolResult,omitempty"`
}

// ToolUse is an invocation the assistant is requesting the host execute.
type ToolUse struct {
	ID    string         `json:"toolUseId"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// ToolResultStatus is the outcome of a dispatched tool invocation.
type ToolResultStatus string

const (
	ToolResultSuccess ToolResultStatus = "success"
	ToolResultError   ToolResultStatus = "error"
)

// ToolResult is the response to a prior ToolUse, carried in a user-role
// message per spec.md §3.
type ToolResult struct {
	ToolUseID string           `json:"toolUseId"`
	Status    ToolResultStatus `json:"status"`
	Content   []ContentBlock   `json:"content"`
}

// Text builds a single-block text Message.
//
// Mirrors lattice_llm.bedrock.messages.text for a single string.
func Text(role Role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{TextBlock(text)}}
}

// TextBlock builds a text-only ContentBlock.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Text: &text}
}

// ToolUseBlock builds a ContentBlock wrapping a ToolUse.
func ToolUseBlock(id, name string, input map[string]any) ContentBlock {
	return ContentBlock{ToolUse: &ToolUse{ID: id, Name: name, Input: input}}
}

// ToolResultBlock builds a ContentBlock wrapping a single ToolResult.
//
// Mirrors lattice_llm.bedrock.messages.tool_result.
func ToolResultBlock(toolUseID string, status ToolResultStatus, content ...ContentBlock) ContentBlock {
	return ContentBlock{ToolResult: &ToolResult{ToolUseID: toolUseID, Status: status, Content: content}}
}

// ToolUseBlocks extracts every tool_use content block from a message, in
// order of appearance.
func (m Message) ToolUseBlocks() []ToolUse {
	var out []ToolUse
	for _, block := range m.Content {
		if block.ToolUse != nil {
			out = append(out, *block.ToolUse)
		}
	}
	return out
}

// TextContent concatenates every text content block in the message.
func (m Message) TextContent() string {
	var out string
	for _, block := range m.Content {
		if block.Text != nil {
			out += *block.Text
		}
	}
	return out
}
