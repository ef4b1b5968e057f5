package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownWrapWidth is the word-wrap column for rendered reports.
const MarkdownWrapWidth = 100

var (
	glamourRenderer     *glamour.TermRenderer //nolint:gochecknoglobals // cached renderer for performance
	glamourRendererOnce sync.Once             //nolint:gochecknoglobals // sync.Once for renderer initialization
)

func getGlamourRenderer() *glamour.TermRenderer {
	glamourRendererOnce.Do(func() {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(MarkdownWrapWidth)}
		if HasColorSupport() {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle("notty"))
		}
		if r, err := glamour.NewTermRenderer(opts...); err == nil {
			glamourRenderer = r
		}
	})
	return glamourRenderer
}

// RenderMarkdown writes a markdown document to w, styled when possible and
// as plain text otherwise.
func RenderMarkdown(w io.Writer, markdown string) error {
	if r := getGlamourRenderer(); r != nil {
		if rendered, err := r.Render(markdown); err == nil {
			_, err = io.WriteString(w, rendered)
			return err
		}
	}
	if _, err := fmt.Fprintln(w, markdown); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}
