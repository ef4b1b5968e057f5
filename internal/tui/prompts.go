package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is the gap kept between prompts and the terminal edge.
	TerminalEdgeMargin = 4

	// MinPromptWidth is the narrowest prompt that stays readable.
	MinPromptWidth = 40
)

// ErrMenuCanceled is returned when the operator aborts a prompt, or when
// stdin is not a terminal.
var ErrMenuCanceled = gaerrors.ErrMenuCanceled

// PromptConfig holds configuration for prompt forms.
type PromptConfig struct {
	// Width is the maximum width. If 0, adapts to the terminal.
	Width int
	// Accessible enables huh's screen-reader mode.
	Accessible bool
}

// NewPromptConfig creates a PromptConfig. Accessible mode follows the
// ACCESSIBLE environment variable.
func NewPromptConfig() *PromptConfig {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	return &PromptConfig{Width: DefaultBoxWidth, Accessible: accessible}
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultBoxWidth
		}
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	return max(available, MinPromptWidth)
}

// runForm runs a single-field form. It refuses to run without a terminal so
// tests and piped input never block on huh.
func runForm(field huh.Field, cfg *PromptConfig, errorContext string) error {
	if !IsInteractive() {
		return ErrMenuCanceled
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme()).
		WithWidth(adaptWidth(cfg.Width)).
		WithAccessible(cfg.Accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrMenuCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// Theme returns the huh theme built from the package colors.
func Theme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ColorPrimary)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	return t
}

// Confirm presents a yes/no prompt. The default answer is No.
func Confirm(message string) (bool, error) {
	return ConfirmWithConfig(message, NewPromptConfig())
}

// ConfirmWithConfig presents a yes/no prompt with custom configuration.
func ConfirmWithConfig(message string, cfg *PromptConfig) (bool, error) {
	var confirmed bool

	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runForm(field, cfg, "confirm prompt failed"); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Input presents a single-line text prompt.
func Input(prompt string) (string, error) {
	return InputWithConfig(prompt, nil, NewPromptConfig())
}

// InputWithConfig presents a text prompt. validate may be nil.
func InputWithConfig(prompt string, validate func(string) error, cfg *PromptConfig) (string, error) {
	var value string

	field := huh.NewInput().
		Title(prompt).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := runForm(field, cfg, "input prompt failed"); err != nil {
		return "", err
	}
	return value, nil
}
