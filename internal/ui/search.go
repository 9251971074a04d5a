package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/search"
	"github.com/gravitrone/annotator/cli/internal/ui/components"
)

// --- Messages ---

type searchReposLoadedMsg struct {
	repos []api.DocumentRepository
}

type searchResultMsg struct {
	result search.Result
}

type documentImportedMsg struct {
	key string
	doc *api.SourceDocument
}

type documentLinkMsg struct {
	key string
	url string
}

type searchFocus int

const (
	searchFocusInput searchFocus = iota
	searchFocusResults
)

// --- Search Model ---

// SearchModel is the external document search tab.
type SearchModel struct {
	session *search.Session
	input   textinput.Model
	spinner spinner.Model
	pager   paginator.Model

	focus   searchFocus
	cursor  int
	loading bool
	// pending is the sequence number of the request awaited; 0 when idle.
	pending uint64
	detail  *search.Row
	width   int
	height  int
	vim     bool
}

// NewSearchModel builds the search tab around session.
func NewSearchModel(session *search.Session) SearchModel {
	in := textinput.New()
	in.Placeholder = "Search documents (blank matches all)"
	in.Prompt = "> "
	in.CharLimit = 256
	in.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = AccentStyle

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.PerPage = session.Results().PageSize()
	pager.SetTotalPages(0)

	return SearchModel{
		session: session,
		input:   in,
		spinner: spin,
		pager:   pager,
	}
}

func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadRepositories())
}

// capturesText reports whether typed characters belong to the query field.
func (m SearchModel) capturesText() bool {
	return m.detail == nil && m.focus == searchFocusInput
}

func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchReposLoadedMsg:
		m.session.SetRepositories(msg.repos)
		return m, nil
	case searchResultMsg:
		if msg.result.Request.Seq != m.pending {
			return m, nil
		}
		m.loading = false
		m.pending = 0
		m.session.Apply(msg.result)
		m.resetPaging()
		return m, nil
	case documentImportedMsg:
		m.session.MarkImported(msg.key)
		if m.detail != nil && m.detail.Key() == msg.key {
			m.detail.Imported = true
			m.detail.StatusErr = nil
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.detail != nil {
			return m.handleDetailKeys(msg)
		}
		if m.focus == searchFocusInput {
			return m.handleInputKeys(msg)
		}
		return m.handleResultKeys(msg)
	}
	return m, nil
}

func (m SearchModel) handleInputKeys(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch {
	case isEnter(msg):
		return m, m.submit()
	case isFocusNext(msg), isDown(msg):
		if m.session.Results().Size() > 0 {
			m.focus = searchFocusResults
			m.input.Blur()
		}
		return m, nil
	case isKey(msg, "ctrl+u"):
		m.input.SetValue("")
		return m, nil
	case isKey(msg, "ctrl+p"):
		m.session.CycleRepository(-1)
		return m, nil
	case isKey(msg, "ctrl+n"):
		m.session.CycleRepository(1)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SearchModel) handleResultKeys(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	page := m.session.Results().Page(m.pager.Page)
	switch {
	case isBack(msg), isFocusPrev(msg), isKey(msg, "/"):
		m.focus = searchFocusInput
		cmd := m.input.Focus()
		return m, cmd
	case isKey(msg, "[", "ctrl+p"):
		m.session.CycleRepository(-1)
		return m, nil
	case isKey(msg, "]", "ctrl+n"):
		m.session.CycleRepository(1)
		return m, nil
	case vimDown(msg, m.vim):
		if m.cursor < len(page)-1 {
			m.cursor++
		}
		return m, nil
	case vimUp(msg, m.vim):
		if m.cursor > 0 {
			m.cursor--
			return m, nil
		}
		m.focus = searchFocusInput
		cmd := m.input.Focus()
		return m, cmd
	case isEnter(msg):
		if row, ok := m.selectedRow(); ok {
			m.detail = &row
		}
		return m, nil
	case isKey(msg, "i"):
		if row, ok := m.selectedRow(); ok {
			return m, m.importRow(row)
		}
		return m, nil
	case isKey(msg, "o"):
		if row, ok := m.selectedRow(); ok {
			return m, m.openRow(row)
		}
		return m, nil
	}

	prev := m.pager.Page
	var cmd tea.Cmd
	m.pager, cmd = m.pager.Update(msg)
	if m.pager.Page != prev {
		m.cursor = 0
	}
	return m, cmd
}

func (m SearchModel) handleDetailKeys(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	row := *m.detail
	switch {
	case isBack(msg):
		m.detail = nil
	case isKey(msg, "i"):
		return m, m.importRow(row)
	case isKey(msg, "o"):
		return m, m.openRow(row)
	}
	return m, nil
}

// selectedRow returns the row under the cursor on the current page.
func (m SearchModel) selectedRow() (search.Row, bool) {
	return m.session.Results().Row(m.pager.Page*m.pager.PerPage + m.cursor)
}

func (m *SearchModel) resetPaging() {
	m.pager.PerPage = m.session.Results().PageSize()
	m.pager.SetTotalPages(m.session.Results().Size())
	m.pager.Page = 0
	m.cursor = 0
	m.detail = nil
}

// --- Commands ---

func (m SearchModel) loadRepositories() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		repos, err := session.FetchRepositories()
		if err != nil {
			return errMsg{err}
		}
		return searchReposLoadedMsg{repos: repos}
	}
}

func (m *SearchModel) submit() tea.Cmd {
	req := m.session.NewRequest(m.input.Value())
	m.pending = req.Seq
	m.loading = true
	session := m.session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return searchResultMsg{result: session.Execute(req)}
	})
}

func (m SearchModel) importRow(row search.Row) tea.Cmd {
	if row.Action() != search.ActionImport {
		return nil
	}
	// Import from where the row was found, not from the current selection.
	repo, _ := m.session.ResultsRepository()
	session := m.session
	return func() tea.Msg {
		doc, err := session.Import(repo, row)
		if err != nil {
			return errMsg{err}
		}
		return documentImportedMsg{key: row.Key(), doc: doc}
	}
}

func (m SearchModel) openRow(row search.Row) tea.Cmd {
	if row.Action() != search.ActionOpen {
		return nil
	}
	session := m.session
	return func() tea.Msg {
		link, err := session.AnnotationLink(row)
		if err != nil {
			return errMsg{err}
		}
		return documentLinkMsg{key: row.Key(), url: link}
	}
}

// --- View ---

func (m SearchModel) View() string {
	if m.detail != nil {
		return m.renderDetail(*m.detail)
	}

	var b strings.Builder
	b.WriteString(m.renderRepository())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + MutedStyle.Render(" Searching..."))
		b.WriteString("\n\n")
	}
	if msg := m.session.Message(); msg != "" {
		style := MutedStyle
		if strings.HasPrefix(msg, search.MsgLoadFailed) {
			style = ErrorStyle
		}
		b.WriteString(style.Render(components.SanitizeOneLine(msg)))
		b.WriteString("\n\n")
	}

	results := m.session.Results()
	if results.Size() > 0 {
		b.WriteString(m.renderTable())
		b.WriteString("\n")
		if row, ok := m.selectedRow(); ok && m.focus == searchFocusResults && len(row.Highlights) > 0 {
			b.WriteString("\n")
			b.WriteString(renderHighlight(row.Highlights[0], components.BoxContentWidth(m.width)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(fmt.Sprintf("%s  %d results", m.pager.View(), results.Size())))
	}

	title := "Search"
	if m.focus == searchFocusResults {
		return components.Indent(components.ActiveTitledBox(title, b.String(), m.width), 1)
	}
	return components.Indent(components.TitledBox(title, b.String(), m.width), 1)
}

func (m SearchModel) renderRepository() string {
	repos := m.session.Repositories()
	repo, ok := m.session.Repository()
	if !ok {
		return MutedStyle.Render("Repository: none")
	}
	label := "Repository: " + SelectedStyle.Render(components.SanitizeOneLine(repo.Name))
	if len(repos) > 1 {
		label += MutedStyle.Render(fmt.Sprintf("  (%d available, [ ] to switch)", len(repos)))
	}
	return label
}

func (m SearchModel) renderTable() string {
	width := components.BoxContentWidth(m.width)
	page := m.session.Results().Page(m.pager.Page)

	columns := []components.TableColumn{
		{Header: "Title", Width: max(12, width-42), Align: lipgloss.Left},
		{Header: "Score", Width: 7, Align: lipgloss.Right},
		{Header: "Status", Width: 12, Align: lipgloss.Left},
		{Header: "Action", Width: 8, Align: lipgloss.Left},
	}
	rows := make([][]string, 0, len(page))
	for _, row := range page {
		status := row.Status()
		if row.StatusErr != nil {
			status = "unknown"
		}
		rows = append(rows, []string{
			components.SanitizeOneLine(row.Title),
			fmt.Sprintf("%.2f", row.Result.Score),
			status,
			row.Action().String(),
		})
	}
	active := -1
	if m.focus == searchFocusResults {
		active = m.cursor
	}
	return components.TableGrid(columns, rows, width, active)
}

func (m SearchModel) renderDetail(row search.Row) string {
	status := row.Status()
	if row.StatusErr != nil {
		status = "unknown: " + row.StatusErr.Error()
	}
	rows := []components.TableRow{
		{Label: "Title", Value: row.Title},
		{Label: "ID", Value: row.Result.DocumentID},
		{Label: "URI", Value: row.Result.URI},
		{Label: "Score", Value: fmt.Sprintf("%.4f", row.Result.Score)},
		{Label: "Language", Value: row.Result.Language},
		{Label: "Timestamp", Value: row.Result.Timestamp},
		{Label: "Status", Value: status, ValueColor: statusColor(row)},
	}
	var b strings.Builder
	b.WriteString(components.Table("Document", rows, m.width))
	if len(row.Highlights) > 0 {
		width := components.BoxContentWidth(m.width)
		lines := make([]string, 0, len(row.Highlights))
		for _, frags := range row.Highlights {
			lines = append(lines, renderHighlight(frags, width))
		}
		b.WriteString("\n")
		b.WriteString(components.TitledBox("Highlights", strings.Join(lines, "\n\n"), m.width))
	}
	hint := fmt.Sprintf("[%s] %s  [esc] back", actionKey(row.Action()), row.Action())
	b.WriteString("\n" + MutedStyle.Render(hint))
	return components.Indent(b.String(), 1)
}

func renderHighlight(frags []search.Fragment, width int) string {
	var b strings.Builder
	for _, f := range frags {
		text := strings.ReplaceAll(components.SanitizeText(f.Text), "\n", " ")
		if f.Emphasis {
			b.WriteString(components.Emphasis(text))
		} else {
			b.WriteString(NormalStyle.Render(text))
		}
	}
	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}
	return b.String()
}

func statusColor(row search.Row) string {
	switch {
	case row.StatusErr != nil:
		return string(ColorWarning)
	case row.Imported:
		return string(ColorSuccess)
	}
	return ""
}

func actionKey(a search.Action) string {
	if a == search.ActionOpen {
		return "o"
	}
	return "i"
}
