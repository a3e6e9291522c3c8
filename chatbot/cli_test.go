package chatbot

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/jcarver989/lattice-llm/graph"
)

func TestColorText(t *testing.T) {
	got := colorText("hi", colorCyan)
	want := "\033[96mhi\033[0m"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCLIIO_PrintAssistantAndPrintUser(t *testing.T) {
	var buf bytes.Buffer
	io := &CLIIO{out: &buf, reader: bufio.NewReader(strings.NewReader(""))}

	io.PrintAssistant(graph.Text(graph.RoleAssistant, "hello there"))
	io.PrintUser(graph.Text(graph.RoleUser, "hi back"))

	out := buf.String()
	if !strings.Contains(out, "Assistant:") || !strings.Contains(out, "hello there") {
		t.Errorf("expected the assistant's line to be printed, got %q", out)
	}
	if !strings.Contains(out, "User:") || !strings.Contains(out, "hi back") {
		t.Errorf("expected the user's line to be printed, got %q", out)
	}
}

func TestCLIIO_ReadUserInput(t *testing.T) {
	var buf bytes.Buffer
	io := &CLIIO{out: &buf, reader: bufio.NewReader(strings.NewReader("Alice\n"))}

	got, err := io.ReadUserInput()
	if err != nil {
		t.Fatalf("ReadUserInput: %v", err)
	}
	if got != "Alice" {
		t.Errorf("expected %q, got %q", "Alice", got)
	}
}

func TestCLIIO_ReadUserInput_PropagatesReadError(t *testing.T) {
	var buf bytes.Buffer
	io := &CLIIO{out: &buf, reader: bufio.NewReader(strings.NewReader(""))}

	if _, err := io.ReadUserInput(); err == nil {
		t.Error("expected an error when the reader is exhausted without a newline")
	}
}
