package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	markdownMinWidth = 20
	markdownMaxWidth = 92
)

// markdownRenderer caches a glamour renderer per wrap width.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{}
}

func (r *markdownRenderer) get(width int) (*glamour.TermRenderer, error) {
	width = min(max(width, markdownMinWidth), markdownMaxWidth)
	if r.renderer != nil && r.width == width {
		return r.renderer, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderer = tr
	r.width = width
	return tr, nil
}

// Render formats src as terminal markdown. Rendering failures fall back to the
// sanitized source text.
func (r *markdownRenderer) Render(src string, width int) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if r != nil {
		if tr, err := r.get(width); err == nil {
			if out, err := tr.Render(src); err == nil {
				return strings.Trim(out, "\n")
			}
		}
	}
	return src
}
