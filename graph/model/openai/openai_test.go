package openai

import (
	"testing"

	"github.com/jcarver989/lattice-llm/graph"
)

func TestToolResultText(t *testing.T) {
	t.Run("joins multiple text blocks with newlines", func(t *testing.T) {
		tr := graph.ToolResult{
			Content: []graph.ContentBlock{graph.TextBlock("72F"), graph.TextBlock("sunny")},
		}
		got := toolResultText(tr)
		want := "72F\nsunny"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("returns empty string for no content", func(t *testing.T) {
		if got := toolResultText(graph.ToolResult{}); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
