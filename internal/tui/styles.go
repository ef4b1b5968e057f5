// Package tui provides the terminal output, prompts, and styles for gitassist.
//
// All colors use lipgloss.AdaptiveColor so output reads on light and dark
// terminals. Call CheckNoColor() before writing styled text; colors are
// disabled when NO_COLOR is set or TERM=dumb.
package tui

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DefaultBoxWidth is the width of bordered boxes such as the main menu.
const DefaultBoxWidth = 60

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states and headings.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for passed stages and gates.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings and confirmation prompts.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failures and blocked gates.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Critical lipgloss.Style
	Info     lipgloss.Style
	Dim      lipgloss.Style
}

// NewOutputStyles creates the common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Critical: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true).
			Underline(true),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// OutcomeIcon returns the icon for a stage outcome name.
func OutcomeIcon(outcome string) string {
	switch outcome {
	case "success":
		return "✓"
	case "failure":
		return "✗"
	case "skipped":
		return "○"
	default:
		return "?"
	}
}

// BoxBorder holds the characters for a bordered box.
type BoxBorder struct {
	TopLeft, TopRight, BottomLeft, BottomRight string
	Horizontal, Vertical                       string
	MiddleLeft, MiddleRight                    string
}

// RoundedBorder draws boxes with rounded corners.
//
//nolint:gochecknoglobals // Intentional package-level constant for TUI border styling
var RoundedBorder = BoxBorder{
	TopLeft:     "╭",
	TopRight:    "╮",
	BottomLeft:  "╰",
	BottomRight: "╯",
	Horizontal:  "─",
	Vertical:    "│",
	MiddleLeft:  "├",
	MiddleRight: "┤",
}

// BoxStyle renders a titled, bordered box.
type BoxStyle struct {
	Width  int
	Border BoxBorder
}

// NewBoxStyle creates a BoxStyle with the default width.
func NewBoxStyle() *BoxStyle {
	return &BoxStyle{Width: DefaultBoxWidth, Border: RoundedBorder}
}

// Render draws title and multi-line content inside the box.
func (b *BoxStyle) Render(title, content string) string {
	inner := b.Width - 2
	bd := b.Border

	var sb strings.Builder
	sb.WriteString(bd.TopLeft + strings.Repeat(bd.Horizontal, inner) + bd.TopRight + "\n")
	sb.WriteString(bd.Vertical + " " + padRight(title, inner-1) + bd.Vertical + "\n")
	sb.WriteString(bd.MiddleLeft + strings.Repeat(bd.Horizontal, inner) + bd.MiddleRight + "\n")
	for _, line := range strings.Split(content, "\n") {
		sb.WriteString(bd.Vertical + " " + padRight(line, inner-1) + bd.Vertical + "\n")
	}
	sb.WriteString(bd.BottomLeft + strings.Repeat(bd.Horizontal, inner) + bd.BottomRight)
	return sb.String()
}

// stripANSI removes CSI escape sequences so widths count visible runes only.
func stripANSI(s string) string {
	var out strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			i += 2
			for i < len(runes) && !isCSIFinal(runes[i]) {
				i++
			}
			continue
		}
		out.WriteRune(runes[i])
	}
	return out.String()
}

func isCSIFinal(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// padRight pads s with spaces to width visible runes, truncating longer
// strings.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(stripANSI(s))
	if n >= width {
		runes := []rune(s)
		if len(runes) > width {
			return string(runes[:width])
		}
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
