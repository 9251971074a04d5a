package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/event"
	"github.com/gravitrone/annotator/cli/internal/kb"
	"github.com/gravitrone/annotator/cli/internal/ui/components"
)

// KnowledgeSource is the backend of the knowledge tab.
type KnowledgeSource interface {
	kb.Service
	ListEnabledKnowledgeBases(project string) ([]api.KnowledgeBase, error)
}

// --- Messages ---

type kbListLoadedMsg struct {
	kbs []api.KnowledgeBase
}

type kbSchemaLoadedMsg struct {
	kbID       string
	concepts   []api.KBHandle
	properties []api.KBHandle
}

type kbSearchResultMsg struct {
	kbID    string
	prefix  string
	results []api.KBHandle
}

type kbSavedMsg struct {
	text string
}

type knowledgeFocus int

const (
	knowFocusSearch knowledgeFocus = iota
	knowFocusConcepts
	knowFocusProperties
)

type draftField int

const (
	draftFieldLabel draftField = iota
	draftFieldDescription
)

// --- Knowledge Model ---

// KnowledgeModel is the knowledge-base tab: picker, type-ahead search, the
// concept and property trees and the detail region.
type KnowledgeModel struct {
	source  KnowledgeSource
	panel   *kb.Panel
	project string
	md      *markdownRenderer

	kbs       []api.KnowledgeBase
	kbIndex   int
	loaded    bool
	defaultKB string

	concepts     []api.KBHandle
	properties   []api.KBHandle
	conceptList  *components.List
	propertyList *components.List

	search     textinput.Model
	results    []api.KBHandle
	resultList *components.List

	focus knowledgeFocus

	renaming    bool
	renameInput textinput.Model

	draftLabel textinput.Model
	draftDesc  textinput.Model
	draftFocus draftField

	width  int
	height int
	vim    bool
}

// NewKnowledgeModel builds the knowledge tab around panel.
func NewKnowledgeModel(source KnowledgeSource, panel *kb.Panel, project string) KnowledgeModel {
	search := textinput.New()
	search.Placeholder = "Type to find concepts and properties"
	search.Prompt = "> "
	search.Focus()

	rename := textinput.New()
	rename.Prompt = ""
	rename.CharLimit = 256

	label := textinput.New()
	label.Placeholder = "Label"
	label.Prompt = "Label: "
	desc := textinput.New()
	desc.Placeholder = "Description (markdown)"
	desc.Prompt = "Description: "

	return KnowledgeModel{
		source:       source,
		panel:        panel,
		project:      project,
		md:           newMarkdownRenderer(),
		conceptList:  components.NewList(8),
		propertyList: components.NewList(8),
		search:       search,
		resultList:   components.NewList(6),
		renameInput:  rename,
		draftLabel:   label,
		draftDesc:    desc,
	}
}

func (m KnowledgeModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadKnowledgeBases())
}

// capturesText reports whether typed characters go to a text field.
func (m KnowledgeModel) capturesText() bool {
	return m.renaming || m.drafting() || m.focus == knowFocusSearch
}

func (m KnowledgeModel) drafting() bool {
	return m.panel.State().Draft != kb.DraftNone
}

func (m KnowledgeModel) Update(msg tea.Msg) (KnowledgeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case kbListLoadedMsg:
		m.loaded = true
		m.kbs = msg.kbs
		m.kbIndex = kb.DefaultIndex(msg.kbs, m.defaultKB)
		return m, m.activateKnowledgeBase()
	case kbSchemaLoadedMsg:
		if current, ok := m.panel.KnowledgeBase(); !ok || current.ID != msg.kbID {
			return m, nil
		}
		m.concepts = msg.concepts
		m.properties = msg.properties
		m.conceptList.SetItems(handleLabels(msg.concepts))
		m.propertyList.SetItems(handleLabels(msg.properties))
		m.followSelection()
		return m, nil
	case kbSearchResultMsg:
		current, ok := m.panel.KnowledgeBase()
		if !ok || current.ID != msg.kbID || msg.prefix != strings.TrimSpace(m.search.Value()) {
			return m, nil
		}
		m.results = msg.results
		m.resultList.SetItems(handleLabels(msg.results))
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.renaming:
			return m.handleRenameKeys(msg)
		case m.drafting():
			return m.handleDraftKeys(msg)
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m KnowledgeModel) handleKeys(msg tea.KeyMsg) (KnowledgeModel, tea.Cmd) {
	if isFocusNext(msg) {
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	}
	if isFocusPrev(msg) {
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	}
	if m.focus == knowFocusSearch {
		return m.handleSearchKeys(msg)
	}

	list := m.activeList()
	switch {
	case isKey(msg, "/"):
		m.setFocus(knowFocusSearch)
	case isKey(msg, "[") && kb.PickerVisible(m.kbs):
		m.kbIndex = (m.kbIndex - 1 + len(m.kbs)) % len(m.kbs)
		return m, m.activateKnowledgeBase()
	case isKey(msg, "]") && kb.PickerVisible(m.kbs):
		m.kbIndex = (m.kbIndex + 1) % len(m.kbs)
		return m, m.activateKnowledgeBase()
	case vimDown(msg, m.vim):
		list.Down()
	case vimUp(msg, m.vim):
		list.Up()
	case isEnter(msg):
		if h, ok := m.activeHandle(); ok {
			return m.apply(m.panel.Select(h))
		}
	case isKey(msg, "n"):
		return m.startDraft(kb.NewConceptEvent{})
	case isKey(msg, "p"):
		return m.startDraft(kb.NewPropertyEvent{})
	case isKey(msg, "e"):
		if current := m.panel.State().Selection.Current(); current != nil {
			m.renaming = true
			m.renameInput.SetValue(current.Name)
			m.renameInput.CursorEnd()
			cmd := m.renameInput.Focus()
			return m, cmd
		}
	case isBack(msg):
		if !m.panel.State().Selection.Empty() {
			return m.apply(m.panel.Deselect())
		}
	case isKey(msg, "r"):
		return m, m.loadSchema()
	}
	return m, nil
}

func (m KnowledgeModel) handleSearchKeys(msg tea.KeyMsg) (KnowledgeModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.resultList.Down()
		return m, nil
	case isUp(msg):
		m.resultList.Up()
		return m, nil
	case isEnter(msg):
		if idx := m.resultList.Selected(); idx < len(m.results) {
			return m.apply(m.panel.Select(m.results[idx]))
		}
		return m, nil
	case isBack(msg):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.results = nil
			m.resultList.SetItems(nil)
			return m, nil
		}
		m.setFocus(knowFocusConcepts)
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.runSearch())
}

func (m KnowledgeModel) handleRenameKeys(msg tea.KeyMsg) (KnowledgeModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.renaming = false
		m.renameInput.Blur()
		return m, nil
	case isEnter(msg):
		m.renaming = false
		m.renameInput.Blur()
		label := strings.TrimSpace(m.renameInput.Value())
		if _, err := m.panel.Rename(label); err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
		return m, m.reloadWithToast(fmt.Sprintf("Renamed to %q", label))
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m KnowledgeModel) handleDraftKeys(msg tea.KeyMsg) (KnowledgeModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.clearDraft()
		return m.apply(m.panel.Deselect())
	case isSave(msg):
		label, desc := m.draftLabel.Value(), m.draftDesc.Value()
		if _, err := m.panel.SaveDraft(label, desc); err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
		m.clearDraft()
		return m, m.reloadWithToast(fmt.Sprintf("Created %q", strings.TrimSpace(label)))
	case isFocusNext(msg), isFocusPrev(msg), isEnter(msg):
		if m.draftFocus == draftFieldLabel {
			m.draftFocus = draftFieldDescription
			m.draftLabel.Blur()
			cmd := m.draftDesc.Focus()
			return m, cmd
		}
		m.draftFocus = draftFieldLabel
		m.draftDesc.Blur()
		cmd := m.draftLabel.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.draftFocus == draftFieldLabel {
		m.draftLabel, cmd = m.draftLabel.Update(msg)
	} else {
		m.draftDesc, cmd = m.draftDesc.Update(msg)
	}
	return m, cmd
}

func (m KnowledgeModel) startDraft(e event.Event) (KnowledgeModel, tea.Cmd) {
	m2, cmd := m.apply(m.panel.Dispatch(e))
	if !m2.drafting() {
		return m2, cmd
	}
	m2.clearDraft()
	m2.search.Blur()
	focus := m2.draftLabel.Focus()
	return m2, tea.Batch(cmd, focus)
}

func (m *KnowledgeModel) clearDraft() {
	m.draftLabel.SetValue("")
	m.draftDesc.SetValue("")
	m.draftLabel.Blur()
	m.draftDesc.Blur()
	m.draftFocus = draftFieldLabel
}

// apply turns the outcome of a panel operation into follow-up commands.
func (m KnowledgeModel) apply(refresh kb.Refresh, err error) (KnowledgeModel, tea.Cmd) {
	if err != nil {
		return m, func() tea.Msg { return errMsg{err} }
	}
	m.followSelection()
	if refresh == kb.RefreshPage {
		return m, m.loadSchema()
	}
	return m, nil
}

// reloadWithToast refreshes the schema lists after a write, since labels and
// membership may have changed, and reports the write.
func (m KnowledgeModel) reloadWithToast(text string) tea.Cmd {
	return tea.Batch(m.loadSchema(), func() tea.Msg { return kbSavedMsg{text: text} })
}

func (m *KnowledgeModel) setFocus(f knowledgeFocus) {
	m.focus = f
	if f == knowFocusSearch {
		m.search.Focus()
		return
	}
	m.search.Blur()
}

// followSelection puts the schema list cursor on the selected entity.
func (m KnowledgeModel) followSelection() {
	sel := m.panel.State().Selection
	switch {
	case sel.Concept != nil:
		m.conceptList.Select(handleIndex(m.concepts, sel.Concept.Identifier))
	case sel.Property != nil:
		m.propertyList.Select(handleIndex(m.properties, sel.Property.Identifier))
	}
}

func handleIndex(items []api.KBHandle, identifier string) int {
	for i, h := range items {
		if h.Identifier == identifier {
			return i
		}
	}
	return 0
}

func (m KnowledgeModel) activeList() *components.List {
	if m.focus == knowFocusProperties {
		return m.propertyList
	}
	return m.conceptList
}

func (m KnowledgeModel) activeHandle() (api.KBHandle, bool) {
	items, kind := m.concepts, api.KindConcept
	if m.focus == knowFocusProperties {
		items, kind = m.properties, api.KindProperty
	}
	idx := m.activeList().Selected()
	if idx < 0 || idx >= len(items) {
		return api.KBHandle{}, false
	}
	// The list a row sits in decides what selecting it means.
	h := items[idx]
	h.Kind = kind
	return h, true
}

// --- Commands ---

func (m KnowledgeModel) loadKnowledgeBases() tea.Cmd {
	source, project := m.source, m.project
	return func() tea.Msg {
		kbs, err := source.ListEnabledKnowledgeBases(project)
		if err != nil {
			return errMsg{err}
		}
		return kbListLoadedMsg{kbs: kbs}
	}
}

func (m *KnowledgeModel) activateKnowledgeBase() tea.Cmd {
	m.concepts, m.properties, m.results = nil, nil, nil
	m.conceptList.SetItems(nil)
	m.propertyList.SetItems(nil)
	m.resultList.SetItems(nil)
	m.search.SetValue("")
	m.renaming = false
	m.clearDraft()
	if len(m.kbs) == 0 {
		return nil
	}
	m.panel.SetKnowledgeBase(m.kbs[m.kbIndex])
	return m.loadSchema()
}

func (m KnowledgeModel) loadSchema() tea.Cmd {
	current, ok := m.panel.KnowledgeBase()
	if !ok {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		concepts, err := source.ListConcepts(current)
		if err != nil {
			return errMsg{fmt.Errorf("list concepts: %w", err)}
		}
		properties, err := source.ListProperties(current)
		if err != nil {
			return errMsg{fmt.Errorf("list properties: %w", err)}
		}
		return kbSchemaLoadedMsg{kbID: current.ID, concepts: concepts, properties: properties}
	}
}

func (m *KnowledgeModel) runSearch() tea.Cmd {
	prefix := strings.TrimSpace(m.search.Value())
	current, ok := m.panel.KnowledgeBase()
	if prefix == "" || !ok {
		m.results = nil
		m.resultList.SetItems(nil)
		return nil
	}
	source := m.source
	return func() tea.Msg {
		found, err := kb.ListSearchResults(current, prefix, source)
		if err != nil {
			return errMsg{err}
		}
		selectable := make([]api.KBHandle, 0, len(found))
		for _, h := range found {
			if kb.Selectable(h) {
				selectable = append(selectable, h)
			}
		}
		return kbSearchResultMsg{kbID: current.ID, prefix: prefix, results: selectable}
	}
}

// --- View ---

func (m KnowledgeModel) View() string {
	if !m.loaded {
		return components.Indent(components.TitledBox("Knowledge", MutedStyle.Render("Loading knowledge bases..."), m.width), 1)
	}
	if len(m.kbs) == 0 {
		return components.Indent(components.TitledBox("Knowledge", MutedStyle.Render("No enabled knowledge base in this project."), m.width), 1)
	}

	var b strings.Builder
	b.WriteString(m.renderPicker())
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	if len(m.results) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderList(m.resultList, m.results, m.focus == knowFocusSearch))
	} else if strings.TrimSpace(m.search.Value()) != "" {
		b.WriteString("\n" + MutedStyle.Render("  No matches."))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderSchema())

	out := components.TitledBox("Knowledge", b.String(), m.width) + "\n" + m.renderDetail()
	if m.renaming {
		out += "\n" + components.InputDialog("Rename", m.renameInput.View())
	}
	return components.Indent(out, 1)
}

func (m KnowledgeModel) renderPicker() string {
	current := m.kbs[m.kbIndex]
	name := SelectedStyle.Render(components.SanitizeOneLine(current.Name))
	if !kb.PickerVisible(m.kbs) {
		return MutedStyle.Render("Knowledge base: ") + name
	}
	return MutedStyle.Render("Knowledge base: ") + name +
		MutedStyle.Render(fmt.Sprintf("  (%d/%d, [ ] to switch)", m.kbIndex+1, len(m.kbs)))
}

func (m KnowledgeModel) renderSchema() string {
	colWidth := max(components.BoxContentWidth(m.width)/2-2, 16)
	col := lipgloss.NewStyle().Width(colWidth)

	concepts := HeaderStyle.Render("Concepts") + "\n" + m.renderList(m.conceptList, m.concepts, m.focus == knowFocusConcepts)
	properties := HeaderStyle.Render("Properties") + "\n" + m.renderList(m.propertyList, m.properties, m.focus == knowFocusProperties)
	return lipgloss.JoinHorizontal(lipgloss.Top, col.Render(concepts), "  ", col.Render(properties))
}

func (m KnowledgeModel) renderList(list *components.List, items []api.KBHandle, focused bool) string {
	if len(items) == 0 {
		return MutedStyle.Render("  (none)")
	}
	current := m.panel.State().Selection.Current()
	visible := list.Visible()
	lines := make([]string, 0, len(visible))
	for i, label := range visible {
		abs := list.RelToAbs(i)
		marker := "  "
		if current != nil && abs < len(items) && items[abs].Identifier == current.Identifier {
			marker = "• "
		}
		label = components.SanitizeOneLine(label)
		if focused && list.IsSelected(abs) {
			lines = append(lines, SelectedStyle.Render("> "+label))
		} else {
			lines = append(lines, NormalStyle.Render(marker+label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m KnowledgeModel) renderDetail() string {
	detail := m.panel.Detail()
	switch detail.Kind {
	case kb.DetailConcept:
		if detail.Blank {
			return m.renderDraft("New Concept")
		}
		if detail.Placeholder {
			body := WarningStyle.Render("This concept does not exist in the knowledge base.") +
				"\n" + MutedStyle.Render(components.SanitizeOneLine(detail.Concept.Identifier))
			return components.TitledBox("Concept", body, m.width)
		}
		return m.renderConcept(detail.Concept)
	case kb.DetailProperty:
		if detail.Blank {
			return m.renderDraft("New Property")
		}
		return m.renderProperty(detail.Property)
	}
	return components.TitledBox("Details", MutedStyle.Render("Select a concept or property, or press n / p to create one."), m.width)
}

func (m KnowledgeModel) renderConcept(c *api.KBConcept) string {
	rows := []components.TableRow{
		{Label: "Label", Value: c.Name},
		{Label: "Identifier", Value: c.Identifier},
		{Label: "Language", Value: c.Language},
	}
	out := components.Table("Concept", rows, m.width)
	if desc := m.md.Render(c.Description, components.BoxContentWidth(m.width)); desc != "" {
		out += "\n" + components.TitledBox("Description", desc, m.width)
	}
	if len(c.Statements) > 0 {
		out += "\n" + components.TitledBox("Statements", m.renderStatements(c.Statements), m.width)
	}
	return out
}

func (m KnowledgeModel) renderProperty(p *api.KBProperty) string {
	rows := []components.TableRow{
		{Label: "Label", Value: p.Name},
		{Label: "Identifier", Value: p.Identifier},
		{Label: "Domain", Value: p.Domain},
		{Label: "Range", Value: p.Range},
		{Label: "Language", Value: p.Language},
	}
	out := components.Table("Property", rows, m.width)
	if desc := m.md.Render(p.Description, components.BoxContentWidth(m.width)); desc != "" {
		out += "\n" + components.TitledBox("Description", desc, m.width)
	}
	return out
}

func (m KnowledgeModel) renderStatements(stmts []api.KBStatement) string {
	width := components.BoxContentWidth(m.width)
	columns := []components.TableColumn{
		{Header: "Property", Width: max(width/2-4, 10), Align: lipgloss.Left},
		{Header: "Value", Width: max(width/2-10, 10), Align: lipgloss.Left},
		{Header: "Lang", Width: 4, Align: lipgloss.Left},
	}
	rows := make([][]string, 0, len(stmts))
	for _, s := range stmts {
		rows = append(rows, []string{
			components.SanitizeOneLine(s.Property),
			components.SanitizeOneLine(s.Value),
			s.Language,
		})
	}
	return components.TableGrid(columns, rows, width, -1)
}

func (m KnowledgeModel) renderDraft(title string) string {
	current, _ := m.panel.KnowledgeBase()
	lang := current.DefaultLanguage
	if lang == "" {
		lang = "-"
	}
	body := strings.Join([]string{
		m.draftLabel.View(),
		m.draftDesc.View(),
		MutedStyle.Render("Language: " + lang),
		"",
		MutedStyle.Render("ctrl+s save  tab next field  esc cancel"),
	}, "\n")
	return components.ActiveTitledBox(title, body, m.width)
}

func handleLabels(items []api.KBHandle) []string {
	labels := make([]string, len(items))
	for i, h := range items {
		labels[i] = h.UIName()
	}
	return labels
}
