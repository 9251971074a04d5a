package components

import "github.com/charmbracelet/lipgloss"

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(48)
	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)
	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
	dialogFieldStyle = lipgloss.NewStyle().
				Foreground(colorLabel)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	return dialogStyle.Render(
		dialogTitleStyle.Render(title) + "\n\n" +
			dialogBodyStyle.Render(message) +
			dialogBodyStyle.Render("\ny: confirm | n: cancel"))
}

// InputDialog renders a prompt around an already rendered input field.
func InputDialog(title, input string) string {
	return dialogStyle.Render(
		dialogTitleStyle.Render(title) + "\n\n" +
			dialogFieldStyle.Render("> "+input) +
			dialogBodyStyle.Render("\nenter: submit | esc: cancel"))
}
