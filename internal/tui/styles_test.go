package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasColorSupport(t *testing.T) {
	t.Run("NO_COLOR disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})

	t.Run("dumb terminal disables colors", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})
}

func TestOutcomeIcon(t *testing.T) {
	assert.Equal(t, "✓", OutcomeIcon("success"))
	assert.Equal(t, "✗", OutcomeIcon("failure"))
	assert.Equal(t, "○", OutcomeIcon("skipped"))
	assert.Equal(t, "?", OutcomeIcon("other"))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abc", padRight("abcdef", 3))
	assert.Equal(t, "", padRight("abc", 0))
	assert.Equal(t, "\x1b[1mab\x1b[0m ", padRight("\x1b[1mab\x1b[0m", 3))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "bold", stripANSI("\x1b[1;31mbold\x1b[0m"))
	assert.Equal(t, "plain", stripANSI("plain"))
}

func TestBoxStyle_Render(t *testing.T) {
	box := NewBoxStyle()
	box.Width = 20

	lines := strings.Split(box.Render("Menu", "1) Build\n2) Push"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.Contains(t, lines[1], "Menu")
	assert.True(t, strings.HasPrefix(lines[2], "├"))
	assert.Contains(t, lines[3], "1) Build")
	assert.True(t, strings.HasPrefix(lines[5], "╰"))
	for _, l := range lines {
		assert.Equal(t, 20, len([]rune(l)))
	}
}
