package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Helpers ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool {
	return isKey(msg, "up")
}

func isDown(msg tea.KeyMsg) bool {
	return isKey(msg, "down")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isSave(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+s")
}

func isFocusNext(msg tea.KeyMsg) bool {
	return isKey(msg, "tab")
}

func isFocusPrev(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+tab")
}

// vimUp and vimDown extend the arrows when vim keys are enabled in config.
func vimUp(msg tea.KeyMsg, vim bool) bool {
	return isUp(msg) || (vim && isKey(msg, "k"))
}

func vimDown(msg tea.KeyMsg, vim bool) bool {
	return isDown(msg) || (vim && isKey(msg, "j"))
}
