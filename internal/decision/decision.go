// Package decision asks the operator yes/no questions and free-text input.
//
// Only an explicit "y" or "yes" (any case) counts as yes. Anything else,
// including end of input or a canceled prompt, is no.
package decision

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/tui"
)

// Decision is the operator's side of every interactive step.
type Decision interface {
	// Ask poses a yes/no question.
	Ask(question string) bool
	// Input reads one line of free text.
	Input(prompt string) (string, error)
}

// IsYes reports whether an answer means yes.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// New returns a huh-based Decision when stdin is a terminal and a
// line-based one reading from in otherwise.
func New(in io.Reader, out io.Writer) Decision {
	if tui.IsInteractive() {
		return NewPrompter()
	}
	return NewLineReader(in, out)
}

// Prompter asks through huh forms.
type Prompter struct {
	cfg *tui.PromptConfig
}

var _ Decision = (*Prompter)(nil)

// NewPrompter creates a Prompter with the default prompt configuration.
func NewPrompter() *Prompter {
	return &Prompter{cfg: tui.NewPromptConfig()}
}

// Ask shows a Yes/No confirm. A canceled prompt is a no.
func (p *Prompter) Ask(question string) bool {
	ok, err := tui.ConfirmWithConfig(question, p.cfg)
	return err == nil && ok
}

// Input shows a text prompt.
func (p *Prompter) Input(prompt string) (string, error) {
	value, err := tui.InputWithConfig(prompt, nil, p.cfg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// LineReader reads answers one line at a time. It is used when input is
// piped and in tests.
type LineReader struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	out     io.Writer
}

var _ Decision = (*LineReader)(nil)

// NewLineReader creates a LineReader. Prompts are written to out.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	if out == nil {
		out = io.Discard
	}
	return &LineReader{scanner: bufio.NewScanner(in), out: out}
}

// Ask writes the question and reads one line.
func (r *LineReader) Ask(question string) bool {
	answer, err := r.readLine(question)
	return err == nil && IsYes(answer)
}

// Input writes the prompt and reads one trimmed line. End of input returns
// ErrMenuCanceled.
func (r *LineReader) Input(prompt string) (string, error) {
	return r.readLine(prompt)
}

func (r *LineReader) readLine(prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprint(r.out, prompt+" ")
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", gaerrors.ErrMenuCanceled
	}
	return strings.TrimSpace(r.scanner.Text()), nil
}
