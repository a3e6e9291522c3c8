package chatbot

import (
	"context"
	"errors"
	"testing"

	"github.com/jcarver989/lattice-llm/graph"
	"github.com/jcarver989/lattice-llm/graph/store"
)

// fakeIO scripts a conversation for Loop's tests: assistant/user turns are
// just recorded, and ReadUserInput replays scripted lines in order.
type fakeIO struct {
	assistantSeen []graph.Message
	userSeen      []graph.Message
	scriptedLines []string
	readCalls     int
}

func (f *fakeIO) PrintAssistant(msg graph.Message) { f.assistantSeen = append(f.assistantSeen, msg) }
func (f *fakeIO) PrintUser(msg graph.Message)       { f.userSeen = append(f.userSeen, msg) }

func (f *fakeIO) ReadUserInput() (string, error) {
	if f.readCalls >= len(f.scriptedLines) {
		return "", errors.New("fakeIO: no more scripted lines")
	}
	line := f.scriptedLines[f.readCalls]
	f.readCalls++
	return line, nil
}

// echoState is a minimal graph.State used to drive Loop's tests without
// depending on graph/model.
type echoState struct {
	Msgs []graph.Message
}

func (s echoState) Messages() []graph.Message { return s.Msgs }

func (s echoState) Clone() graph.State {
	cp := make([]graph.Message, len(s.Msgs))
	copy(cp, s.Msgs)
	return echoState{Msgs: cp}
}

func (s echoState) Merge(delta graph.State) graph.State {
	if delta == nil {
		return s
	}
	return echoState{Msgs: graph.MergeMessages(s.Msgs, delta.Messages())}
}

func countRole(msgs []graph.Message, role graph.Role) int {
	n := 0
	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}

func TestLoop_PromptsForUserInputAfterAnAssistantTurn(t *testing.T) {
	g := graph.New()
	ask := func(_ context.Context, _ *graph.Context, s graph.State) (graph.State, error) {
		return s.Merge(echoState{Msgs: []graph.Message{graph.Text(graph.RoleAssistant, "what's your name?")}}), nil
	}
	if _, err := g.AddNode("ask", graph.NodeFunc(ask)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	route := func(_ context.Context, _ *graph.Context, s graph.State) (string, error) {
		if countRole(s.Messages(), graph.RoleUser) >= 1 {
			return graph.End, nil
		}
		return "ask", nil
	}
	if err := g.AddEdge("ask", graph.If(route)); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	st := store.NewMemStore(func() store.State { return echoState{} })
	driver := graph.NewDriver(g, &graph.Context{UserID: "u1"}, st, "u1")
	io := &fakeIO{scriptedLines: []string{"Alice"}}

	final, err := Loop(context.Background(), driver, nil, io)
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}

	if len(io.assistantSeen) != 1 || io.assistantSeen[0].TextContent() != "what's your name?" {
		t.Errorf("expected the assistant turn to be printed once, got %+v", io.assistantSeen)
	}
	if len(io.userSeen) != 1 || io.userSeen[0].TextContent() != "Alice" {
		t.Errorf("expected the user's reply to be printed, got %+v", io.userSeen)
	}
	if io.readCalls != 1 {
		t.Errorf("expected exactly one ReadUserInput call, got %d", io.readCalls)
	}

	msgs := final.Messages()
	if len(msgs) != 2 || msgs[1].TextContent() != "Alice" {
		t.Errorf("expected the final state to carry both turns, got %+v", msgs)
	}
}

func TestLoop_DispatchesToolCallsWithoutPromptingTheUser(t *testing.T) {
	g := graph.New()
	assistant := func(_ context.Context, _ *graph.Context, s graph.State) (graph.State, error) {
		for _, m := range s.Messages() {
			for _, b := range m.Content {
				if b.ToolResult != nil {
					return s.Merge(echoState{Msgs: []graph.Message{graph.Text(graph.RoleAssistant, "done")}}), nil
				}
			}
		}
		msg := graph.Message{
			Role:    graph.RoleAssistant,
			Content: []graph.ContentBlock{graph.ToolUseBlock("call-1", "get_echo", nil)},
		}
		return s.Merge(echoState{Msgs: []graph.Message{msg}}), nil
	}
	if _, err := g.AddNode("assistant", graph.NodeFunc(assistant)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	route := func(_ context.Context, _ *graph.Context, s graph.State) (string, error) {
		// End as soon as the dispatched tool_result (a user-role message)
		// is the latest turn, so the session finishes without an assistant
		// text turn that would prompt the user.
		msgs := s.Messages()
		if len(msgs) > 0 && msgs[len(msgs)-1].Role == graph.RoleUser {
			return graph.End, nil
		}
		return "assistant", nil
	}
	if err := g.AddEdge("assistant", graph.If(route)); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	st := store.NewMemStore(func() store.State { return echoState{} })
	driver := graph.NewDriver(g, &graph.Context{UserID: "u1"}, st, "u1")
	tools := []graph.Tool{&echoTool{}}
	io := &fakeIO{}

	final, err := Loop(context.Background(), driver, tools, io)
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if io.readCalls != 0 {
		t.Errorf("expected no user prompts since every assistant turn was handled by a tool or by End, got %d", io.readCalls)
	}

	msgs := final.Messages()
	if countRole(msgs, graph.RoleUser) != 1 {
		t.Errorf("expected exactly 1 tool_result message in the final state, got %+v", msgs)
	}
}

type echoTool struct{}

func (e *echoTool) Name() string                                          { return "get_echo" }
func (e *echoTool) Description() string                                   { return "" }
func (e *echoTool) Schema() map[string]any                                { return nil }
func (e *echoTool) Call(_ context.Context, _ map[string]any) (any, error) { return "echoed", nil }
