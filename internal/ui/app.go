package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/config"
	"github.com/gravitrone/annotator/cli/internal/event"
	"github.com/gravitrone/annotator/cli/internal/kb"
	"github.com/gravitrone/annotator/cli/internal/logging"
	"github.com/gravitrone/annotator/cli/internal/search"
	"github.com/gravitrone/annotator/cli/internal/ui/components"
)

// --- Tab Constants ---

const (
	tabSearch = 0
	tabKnow   = 1
	tabCount  = 2
)

var tabNames = []string{"Search", "Knowledge"}

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type startupCheckedMsg struct {
	status string
	err    error
}

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model that routes between tabs.
type App struct {
	client *api.Client
	config *config.Config
	log    *zap.Logger
	bus    *event.Bus

	tab         int
	width       int
	height      int
	err         string
	helpOpen    bool
	quitConfirm bool

	startupChecking bool
	apiStatus       string
	toast           *appToast

	search SearchModel
	know   KnowledgeModel
}

// NewApp creates the root application model. Both tabs share one event bus;
// query events are logged, counted and forwarded to the platform event log.
func NewApp(client *api.Client, cfg *config.Config, log *zap.Logger) App {
	if cfg == nil {
		cfg = &config.Config{}
	}
	log = logging.OrNop(log)

	bus := event.NewBus()
	search.LogQueries(bus, log.Named("audit"))
	search.CountQueries(bus)
	search.ForwardQueries(bus, client)

	webURL := cfg.WebURL
	if strings.TrimSpace(webURL) == "" {
		webURL = client.BaseURL()
	}
	session := search.NewSession(client, bus, log, search.Options{
		User:              cfg.Username,
		Project:           cfg.Project,
		WebURL:            webURL,
		PageSize:          cfg.ResultsPerPage(),
		DefaultRepository: cfg.DefaultRepository,
	})
	searchModel := NewSearchModel(session)
	searchModel.vim = cfg.VimKeys

	know := NewKnowledgeModel(client, kb.NewPanel(client, bus, log), cfg.Project)
	know.vim = cfg.VimKeys
	know.defaultKB = cfg.DefaultKnowledgeBase

	return App{
		client:          client,
		config:          cfg,
		log:             log,
		bus:             bus,
		tab:             tabSearch,
		startupChecking: true,
		apiStatus:       "checking",
		search:          searchModel,
		know:            know,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.search.Init(), a.know.Init(), a.runStartupCheckCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.search.width = msg.Width
		a.search.height = msg.Height
		a.know.width = msg.Width
		a.know.height = msg.Height
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		a.log.Debug("ui error", zap.Error(msg.err))
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case startupCheckedMsg:
		a.startupChecking = false
		if msg.err != nil {
			a.apiStatus = "unreachable"
			a.log.Warn("startup health check failed", zap.Error(msg.err))
			return a, a.setToast("warning", "API unreachable: "+api.RootCauseMessage(msg.err))
		}
		a.apiStatus = msg.status
		if a.apiStatus == "" {
			a.apiStatus = "ok"
		}
		return a, nil

	// Search tab messages are routed regardless of the active tab.
	case searchReposLoadedMsg, searchResultMsg, spinner.TickMsg:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	case documentImportedMsg:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		name := msg.key
		if msg.doc != nil && msg.doc.Name != "" {
			name = msg.doc.Name
		}
		return a, tea.Batch(cmd, a.setToast("success", fmt.Sprintf("Imported %q", name)))
	case documentLinkMsg:
		return a, a.setToast("info", "Annotate at "+msg.url)

	case kbListLoadedMsg, kbSchemaLoadedMsg, kbSearchResultMsg:
		var cmd tea.Cmd
		a.know, cmd = a.know.Update(msg)
		return a, cmd
	case kbSavedMsg:
		return a, a.setToast("success", msg.text)

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}

		if isKey(msg, "ctrl+c") {
			return a.quit()
		}
		if isKey(msg, "ctrl+t") {
			return a.switchTab((a.tab + 1) % tabCount)
		}
		if !a.capturesText() {
			if isKey(msg, "?") {
				a.helpOpen = true
				return a, nil
			}
			if isQuit(msg) {
				return a.quit()
			}
			if idx, ok := tabIndexForKey(msg.String()); ok {
				return a.switchTab(idx)
			}
		}
	}

	// Delegate to active tab
	var cmd tea.Cmd
	switch a.tab {
	case tabSearch:
		a.search, cmd = a.search.Update(msg)
	case tabKnow:
		a.know, cmd = a.know.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = components.Indent(components.ConfirmDialog("Quit", "You have an unsaved draft. Quit anyway?"), 1)
	case a.helpOpen:
		content = a.renderHelp()
	case a.tab == tabKnow:
		content = a.know.View()
	default:
		content = a.search.View()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n\n%s%s", banner, tabs, content, hints, feedback)
}

func (a App) quit() (tea.Model, tea.Cmd) {
	if a.hasUnsaved() {
		a.quitConfirm = true
		return a, nil
	}
	return a, tea.Quit
}

func (a App) switchTab(newTab int) (tea.Model, tea.Cmd) {
	if a.tab == newTab {
		return a, nil
	}
	a.tab = newTab
	return a, textinput.Blink
}

// capturesText reports whether the active tab is editing text, in which case
// single-character global keys are left to it.
func (a App) capturesText() bool {
	switch a.tab {
	case tabSearch:
		return a.search.capturesText()
	case tabKnow:
		return a.know.capturesText()
	}
	return false
}

func (a App) hasUnsaved() bool {
	if a.know.renaming {
		return true
	}
	return a.know.drafting() && strings.TrimSpace(a.know.draftLabel.Value()) != ""
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(tabNames)+1)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	segments = append(segments, "  "+a.renderAPIStatus())
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) renderAPIStatus() string {
	switch {
	case a.startupChecking:
		return MutedStyle.Render("api: checking")
	case a.apiStatus == "unreachable":
		return ErrorStyle.Render("api: unreachable")
	}
	return SuccessStyle.Render("api: " + components.SanitizeOneLine(a.apiStatus))
}

func (a App) statusHints() []string {
	hints := a.statusHintsForTab()
	return append(hints,
		components.Hint("ctrl+t", "Tab"),
		components.Hint("?", "Help"),
		components.Hint("ctrl+c", "Quit"),
	)
}

func (a App) statusHintsForTab() []string {
	switch a.tab {
	case tabKnow:
		switch {
		case a.know.renaming:
			return []string{components.Hint("enter", "Rename"), components.Hint("esc", "Cancel")}
		case a.know.drafting():
			return []string{
				components.Hint("ctrl+s", "Save"),
				components.Hint("tab", "Next Field"),
				components.Hint("esc", "Cancel"),
			}
		}
		hints := []string{
			components.Hint("tab", "Focus"),
			components.Hint("enter", "Select"),
			components.Hint("n", "New Concept"),
			components.Hint("p", "New Property"),
			components.Hint("e", "Rename"),
			components.Hint("esc", "Deselect"),
		}
		if kb.PickerVisible(a.know.kbs) {
			hints = append(hints, components.Hint("[ ]", "Knowledge Base"))
		}
		return hints
	default:
		if a.search.detail != nil {
			return []string{
				components.Hint("i", "Import"),
				components.Hint("o", "Open"),
				components.Hint("esc", "Back"),
			}
		}
		if a.search.focus == searchFocusInput {
			return []string{
				components.Hint("enter", "Search"),
				components.Hint("tab", "Results"),
				components.Hint("ctrl+n/p", "Repository"),
			}
		}
		return []string{
			components.Hint("enter", "Details"),
			components.Hint("i", "Import"),
			components.Hint("o", "Open"),
			components.Hint("←/→", "Page"),
			components.Hint("[ ]", "Repository"),
			components.Hint("esc", "Query"),
		}
	}
}

func (a App) renderHelp() string {
	hints := a.statusHintsForTab()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) runStartupCheckCmd() tea.Cmd {
	client := a.client.WithTimeout(700 * time.Millisecond)
	return func() tea.Msg {
		status, err := client.Health()
		return startupCheckedMsg{status: status, err: err}
	}
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func tabIndexForKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	if idx >= tabCount {
		return 0, false
	}
	return idx, true
}
