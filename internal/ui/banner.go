package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ▄▀█ █▄ █ █▄ █ █▀█ ▀█▀ ▄▀█ ▀█▀ █▀█ █▀█
 █▀█ █ ▀█ █ ▀█ █▄█  █  █▀█  █  █▄█ █▀▄`

const bannerSubtitle = "External Search • Knowledge Bases"

// RenderBanner returns the styled banner with its subtitle rule.
func RenderBanner() string {
	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")

	maxWidth := lipgloss.Width(bannerSubtitle)
	var b strings.Builder
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
		b.WriteString(BannerStyle.Render(line) + "\n")
	}

	centered := lipgloss.NewStyle().Width(maxWidth).Align(lipgloss.Center)
	subtitle := centered.Foreground(ColorMuted).Render(bannerSubtitle)
	underline := centered.Foreground(ColorBorder).Render(strings.Repeat("─", lipgloss.Width(bannerSubtitle)))

	return "\n" + b.String() + "\n" + subtitle + "\n" + underline + "\n"
}
