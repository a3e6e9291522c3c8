package chatbot

import (
	"context"
	"fmt"

	"github.com/jcarver989/lattice-llm/graph"
	"github.com/jcarver989/lattice-llm/graph/tool"
)

// Loop drives d to completion, the Go port of
// lattice_llm.graph.execution.run_chatbot_on_cli: each layer's new
// assistant turns are printed as they appear, a turn carrying tool_use
// blocks is answered automatically via tool.Dispatch, and anything else
// prompts io for the human's next turn. It returns the final state once
// the graph reaches End.
func Loop(ctx context.Context, d *graph.Driver, tools []graph.Tool, io IO) (graph.State, error) {
	printed := 0
	var state graph.State

	for {
		result, ok, err := d.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("chatbot: %w", err)
		}
		if !ok {
			return state, nil
		}
		state = result.State

		messages := state.Messages()
		for ; printed < len(messages); printed++ {
			if messages[printed].Role == graph.RoleAssistant {
				io.PrintAssistant(messages[printed])
			}
		}

		if result.IsFinished {
			return state, nil
		}
		if len(messages) == 0 {
			continue
		}

		last := messages[len(messages)-1]
		if last.Role != graph.RoleAssistant {
			continue
		}

		if toolResults, handled := tool.Dispatch(ctx, last, tools); handled {
			if err := appendMessage(ctx, d, state, toolResults); err != nil {
				return nil, err
			}
			continue
		}

		userText, err := io.ReadUserInput()
		if err != nil {
			return nil, fmt.Errorf("chatbot: read user input: %w", err)
		}
		userMsg := graph.Text(graph.RoleUser, userText)
		io.PrintUser(userMsg)
		if err := appendMessage(ctx, d, state, userMsg); err != nil {
			return nil, err
		}
	}
}

// appendMessage merges msg into state and writes it back through the
// driver's store, the injection point Driver.Next documents for feeding a
// new turn into the next layer.
func appendMessage(ctx context.Context, d *graph.Driver, state graph.State, msg graph.Message) error {
	delta := graph.NewBaseState(msg)
	merged := state.Merge(delta)
	if err := d.Store().Set(ctx, d.Key(), merged); err != nil {
		return fmt.Errorf("chatbot: %w", err)
	}
	return nil
}
