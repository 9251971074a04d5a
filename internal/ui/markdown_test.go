package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/annotator/cli/internal/ui/components"
)

func TestMarkdownRendererEmpty(t *testing.T) {
	assert.Empty(t, newMarkdownRenderer().Render("   ", 40))
}

func TestMarkdownRendererKeepsText(t *testing.T) {
	r := newMarkdownRenderer()
	out := components.SanitizeText(r.Render("A **capital** city.", 40))
	assert.Contains(t, out, "capital")
	assert.Contains(t, out, "city")
}

func TestMarkdownRendererReusesRendererPerWidth(t *testing.T) {
	r := newMarkdownRenderer()
	r.Render("x", 40)
	first := r.renderer
	r.Render("y", 40)
	assert.Same(t, first, r.renderer)

	r.Render("z", 60)
	assert.NotSame(t, first, r.renderer)
	assert.Equal(t, 60, r.width)
}

func TestMarkdownRendererNilFallsBack(t *testing.T) {
	var r *markdownRenderer
	assert.Equal(t, "plain", r.Render(" plain ", 40))
}
