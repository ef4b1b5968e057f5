package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// Output formats for NewOutput.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output provides methods for structured output to a terminal.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error with its suggested action, if any.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Critical prints a message for a blocking gate result.
	Critical(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Table prints aligned columns.
	Table(headers []string, rows [][]string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error
}

// NewOutput creates the appropriate output based on format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

// TTYOutput provides styled terminal output using Lip Gloss.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
	table  *TableStyles
}

var _ Output = (*TTYOutput)(nil)

// NewTTYOutput creates a new TTYOutput. It respects NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
		table:  NewTableStyles(),
	}
}

// Success outputs a success message with a ✓ icon.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error outputs an error with a ✗ icon. Known errors are shown with their
// user-facing message and a "▸ Try:" hint.
func (o *TTYOutput) Error(err error) {
	msg, action := gaerrors.Actionable(err)
	if msg != err.Error() {
		msg = msg + " (" + err.Error() + ")"
	}
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+msg))
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning outputs a warning message with a ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Critical outputs a blocking message with a ⛔ icon.
func (o *TTYOutput) Critical(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Critical.Render("⛔ "+msg))
}

// Info outputs an informational message with an ℹ icon.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render("ℹ "+msg))
}

// Table outputs tabular data with aligned columns.
func (o *TTYOutput) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = o.table.Header.Render(padRight(h, widths[i]))
	}
	_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))

	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts[i] = o.table.Cell.Render(padRight(cell, widths[i]))
		}
		_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// JSON outputs an arbitrary value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeIndented(o.w, v)
}

// JSONOutput writes every message as one JSON object per line.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

var _ Output = (*JSONOutput)(nil)

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w, encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Success outputs {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) { o.message("success", msg) }

// Warning outputs {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) { o.message("warning", msg) }

// Critical outputs {"type":"critical","message":...}.
func (o *JSONOutput) Critical(msg string) { o.message("critical", msg) }

// Info outputs {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) { o.message("info", msg) }

func (o *JSONOutput) message(kind, msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: kind, Message: msg})
}

// Error outputs the error with its user-facing message and suggestion.
func (o *JSONOutput) Error(err error) {
	msg, action := gaerrors.Actionable(err)
	out := jsonError{Type: "error", Message: msg, Suggestion: action}
	if msg != err.Error() {
		out.Details = err.Error()
	} else if inner := errors.Unwrap(err); inner != nil {
		out.Details = inner.Error()
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(out)
}

// Table outputs the rows as a list of header-keyed objects.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(out)
}

// JSON outputs an arbitrary value as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeIndented(o.w, v)
}

func encodeIndented(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
