package decision

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

func TestIsYes(t *testing.T) {
	for _, in := range []string{"y", "Y", "yes", "YES", " Yes "} {
		assert.True(t, IsYes(in), in)
	}
	for _, in := range []string{"", "n", "no", "yep", "1", "ye"} {
		assert.False(t, IsYes(in), in)
	}
}

func TestLineReader_Ask(t *testing.T) {
	var out bytes.Buffer
	r := NewLineReader(strings.NewReader("y\nno\nYES\n"), &out)

	assert.True(t, r.Ask("Continue despite high vulnerabilities? (y/n)"))
	assert.False(t, r.Ask("again?"))
	assert.True(t, r.Ask("third?"))
	assert.False(t, r.Ask("eof?"), "end of input is a no")
	assert.Contains(t, out.String(), "Continue despite high vulnerabilities? (y/n)")
}

func TestLineReader_Input(t *testing.T) {
	r := NewLineReader(strings.NewReader("  FINDATA-12  \n"), nil)

	got, err := r.Input("Ticket:")
	require.NoError(t, err)
	assert.Equal(t, "FINDATA-12", got)

	_, err = r.Input("Ticket:")
	require.ErrorIs(t, err, gaerrors.ErrMenuCanceled)
}

func TestNew_NonInteractive(t *testing.T) {
	d := New(strings.NewReader(""), nil)
	if _, ok := d.(*Prompter); ok {
		t.Skip("stdin is a terminal")
	}
	assert.IsType(t, &LineReader{}, d)
}

func TestPrompter_NonInteractive(t *testing.T) {
	d := New(strings.NewReader(""), nil)
	if _, ok := d.(*Prompter); ok {
		t.Skip("stdin is a terminal")
	}
	p := NewPrompter()
	assert.False(t, p.Ask("Proceed?"))
	_, err := p.Input("Message:")
	require.ErrorIs(t, err, gaerrors.ErrMenuCanceled)
}
