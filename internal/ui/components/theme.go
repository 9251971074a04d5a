package components

import "github.com/charmbracelet/lipgloss"

// Palette shared by every component. The ui package mirrors it in its styles.
var (
	colorBorder     = lipgloss.Color("#2b3a42")
	colorAccent     = lipgloss.Color("#3a8fb7")
	colorLabel      = lipgloss.Color("#5fa8a0")
	colorText       = lipgloss.Color("#dcdfe4")
	colorMuted      = lipgloss.Color("#8b93a8")
	colorEmphasis   = lipgloss.Color("#e5c07b")
	colorKeyCapText = lipgloss.Color("#14171c")
	colorKeyCapBg   = lipgloss.Color("#8a93a6")
	colorActiveBg   = lipgloss.Color("#1e2a33")
	colorErrBorder  = lipgloss.Color("#7a2f3a")
	colorErrHeader  = lipgloss.Color("#e06c75")
	colorErrBody    = lipgloss.Color("#d6b5b5")
)
