package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jcarver989/lattice-llm/graph"
)

// Dispatch executes every tool_use block in msg against tools and returns
// the resulting user-role message carrying one tool_result block per call,
// in the same order the tool_use blocks appeared. ok is false when msg
// carried no tool_use blocks at all, matching
// lattice_llm.bedrock.tools.maybe_execute_tools returning None.
func Dispatch(ctx context.Context, msg graph.Message, tools []graph.Tool) (result graph.Message, ok bool) {
	calls := msg.ToolUseBlocks()
	if len(calls) == 0 {
		return graph.Message{}, false
	}

	byName := make(map[string]graph.Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}

	blocks := make([]graph.ContentBlock, len(calls))
	for i, call := range calls {
		blocks[i] = executeOne(ctx, call, byName)
	}
	return graph.Message{Role: graph.RoleUser, Content: blocks}, true
}

// executeOne runs a single tool_use call and wraps the outcome in a
// tool_result content block, mirroring execute_tool: an unknown tool name
// or a tool error both become an error-status result instead of
// propagating, so the model gets to see and react to the failure.
func executeOne(ctx context.Context, call graph.ToolUse, byName map[string]graph.Tool) graph.ContentBlock {
	// FakeModel test doubles (and some vendor responses) may omit a
	// tool_use id; mint one so every tool_result still has something to
	// correlate against.
	id := call.ID
	if id == "" {
		id = uuid.NewString()
	}

	t, found := byName[call.Name]
	if !found {
		return errorResult(id, fmt.Sprintf("no tool registered with name %q", call.Name))
	}

	if raw, err := json.Marshal(call.Input); err != nil || !gjson.ValidBytes(raw) {
		return errorResult(id, fmt.Sprintf("tool %q received malformed input", call.Name))
	}

	result, err := safeCall(ctx, t, call.Input)
	if err != nil {
		return errorResult(id, (&graph.ToolInvocationError{ToolName: call.Name, Cause: err}).Error())
	}
	return graph.ToolResultBlock(id, graph.ToolResultSuccess, resultToContentBlock(result))
}

// safeCall recovers a panicking tool the same way execute_tool's except
// clause catches an arbitrary Python exception.
func safeCall(ctx context.Context, t graph.Tool, input map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.Call(ctx, input)
}

func errorResult(toolUseID, message string) graph.ContentBlock {
	return graph.ToolResultBlock(toolUseID, graph.ToolResultError, graph.TextBlock(message))
}

// resultToContentBlock converts a tool's Go return value into a content
// block, mirroring lattice_llm.bedrock.tools.tool_result_content_block's
// match on Python value kind.
func resultToContentBlock(result any) graph.ContentBlock {
	switch v := result.(type) {
	case string:
		return graph.TextBlock(v)
	case int, int32, int64, float32, float64:
		return graph.TextBlock(fmt.Sprintf("%v", v))
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return jsonBlock(map[string]any{"items": items})
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = fmt.Sprintf("%v", item)
		}
		return jsonBlock(map[string]any{"items": items})
	case map[string]any:
		return jsonBlock(v)
	default:
		return graph.TextBlock(fmt.Sprintf("%v", v))
	}
}

func jsonBlock(v map[string]any) graph.ContentBlock {
	// There is no dedicated "json" content-block variant in the wire
	// model (spec.md §3 only has text/toolUse/toolResult); a tool's
	// structured return value is carried as its JSON-encoded text instead,
	// built key by key with sjson rather than a single json.Marshal. Keys
	// are sorted first since Go's map iteration order is randomized and
	// sjson.Set only preserves the order it's called in.
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := "{}"
	for _, k := range keys {
		var err error
		data, err = sjson.Set(data, k, v[k])
		if err != nil {
			return graph.TextBlock(fmt.Sprintf("%v", v))
		}
	}
	return graph.TextBlock(data)
}
