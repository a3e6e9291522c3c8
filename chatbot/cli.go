// Package chatbot drives a graph.Driver as an interactive command-line
// conversation, the Go port of lattice_llm.graph.execution's
// run_chatbot_on_cli and lattice_llm.util.
package chatbot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcarver989/lattice-llm/graph"
)

// color is an ANSI escape sequence, matching lattice_llm.util.Color.
type color string

const (
	colorCyan  color = "\033[96m"
	colorGreen color = "\033[92m"
	colorReset color = "\033[0m"
)

func colorText(text string, c color) string {
	return fmt.Sprintf("%s%s%s", c, text, colorReset)
}

// IO is the interaction surface Loop needs: printing messages and reading
// the next user turn. CLIIO is the default implementation; tests supply
// their own to script a conversation.
type IO interface {
	PrintAssistant(msg graph.Message)
	PrintUser(msg graph.Message)
	ReadUserInput() (string, error)
}

// CLIIO implements IO against a terminal, colorizing assistant and user
// turns the way lattice_llm.util.print_message does.
type CLIIO struct {
	out    io.Writer
	reader *bufio.Reader
}

// NewCLIIO builds a CLIIO reading from stdin and writing to stdout.
func NewCLIIO() *CLIIO {
	return &CLIIO{out: os.Stdout, reader: bufio.NewReader(os.Stdin)}
}

// PrintAssistant prints an assistant turn's text content in cyan.
func (c *CLIIO) PrintAssistant(msg graph.Message) {
	fmt.Fprintf(c.out, "%s %s\n\n", colorText("Assistant:", colorCyan), msg.TextContent())
}

// PrintUser prints a user turn's text content in green.
func (c *CLIIO) PrintUser(msg graph.Message) {
	fmt.Fprintf(c.out, "%s %s\n\n", colorText("User:", colorGreen), msg.TextContent())
}

// ReadUserInput prompts for and reads one line of input.
func (c *CLIIO) ReadUserInput() (string, error) {
	fmt.Fprint(c.out, colorText("User:", colorGreen)+" ")
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	fmt.Fprintln(c.out)
	return strings.TrimRight(line, "\n"), nil
}
