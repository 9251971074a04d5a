package ui

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/config"
	"github.com/gravitrone/annotator/cli/internal/ui/components"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) App {
	t.Helper()
	client := uiTestClient(t, handler)
	app := NewApp(client, &config.Config{
		Username: "alice",
		Project:  "demo",
		WebURL:   "https://annotate.example.org",
	}, zap.NewNop())
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(App)
}

func TestAppSubmitForwardsQueryEvent(t *testing.T) {
	srv := newSearchServer()
	app := newTestApp(t, srv.handler)

	model, _ := app.Update(searchReposLoadedMsg{repos: []api.DocumentRepository{{ID: "r1", Name: "pubmed"}}})
	app = model.(App)
	app.search.input.SetValue("gene")

	model, cmd := app.Update(keyEnter)
	app = model.(App)
	res, ok := findMsg[searchResultMsg](collectMsgs(cmd))
	require.True(t, ok)
	model, _ = app.Update(res)
	app = model.(App)

	assert.Equal(t, 1, srv.eventSeen, "query event reaches the platform event log")
	assert.Equal(t, 2, app.search.session.Results().Size())
}

func TestAppSearchMessagesRouteWhileOnOtherTab(t *testing.T) {
	app := newTestApp(t, newSearchServer().handler)

	model, _ := app.Update(keyCtrlT)
	app = model.(App)
	require.Equal(t, tabKnow, app.tab)

	model, _ = app.Update(searchReposLoadedMsg{repos: []api.DocumentRepository{{ID: "r1", Name: "pubmed"}}})
	app = model.(App)
	_, ok := app.search.session.Repository()
	assert.True(t, ok)
}

func TestAppTypingDoesNotTriggerGlobalKeys(t *testing.T) {
	app := newTestApp(t, newSearchServer().handler)

	for _, k := range []string{"q", "?", "2"} {
		model, _ := app.Update(runes(k))
		app = model.(App)
	}
	assert.Equal(t, tabSearch, app.tab)
	assert.False(t, app.helpOpen)
	assert.Equal(t, "q?2", app.search.input.Value())
}

func TestAppGlobalKeysOutsideTextFields(t *testing.T) {
	app := newTestApp(t, newSearchServer().handler)
	app.search.focus = searchFocusResults
	app.search.input.Blur()

	model, _ := app.Update(runes("?"))
	app = model.(App)
	assert.True(t, app.helpOpen)
	assert.Contains(t, components.SanitizeText(app.View()), "Help")

	model, _ = app.Update(keyEsc)
	app = model.(App)
	assert.False(t, app.helpOpen)

	model, _ = app.Update(runes("2"))
	app = model.(App)
	assert.Equal(t, tabKnow, app.tab)
}

func TestAppErrorShownUntilNextKey(t *testing.T) {
	app := newTestApp(t, newSearchServer().handler)

	model, _ := app.Update(errMsg{errors.New("Unable to import document - disk full")})
	app = model.(App)
	view := components.SanitizeText(app.View())
	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "disk full")

	model, _ = app.Update(keyDown)
	app = model.(App)
	assert.Empty(t, app.err)
}

func TestAppStartupCheck(t *testing.T) {
	app := newTestApp(t, newSearchServer().handler)

	msg, ok := findMsg[startupCheckedMsg](collectMsgs(app.runStartupCheckCmd()))
	require.True(t, ok)
	require.NoError(t, msg.err)
	model, _ := app.Update(msg)
	app = model.(App)
	assert.Equal(t, "ok", app.apiStatus)
	assert.Contains(t, components.SanitizeText(app.View()), "api: ok")

	model, _ = app.Update(startupCheckedMsg{err: errors.New("dial tcp: refused")})
	app = model.(App)
	assert.Equal(t, "unreachable", app.apiStatus)
	require.NotNil(t, app.toast)
	assert.Equal(t, "warning", app.toast.level)
}

func TestAppToastsForDocumentActions(t *testing.T) {
	app := newTestApp(t, newSearchServer().handler)

	model, _ := app.Update(documentLinkMsg{key: "a.txt", url: "https://annotate.example.org/p/demo/annotate/42"})
	app = model.(App)
	require.NotNil(t, app.toast)
	assert.Contains(t, app.toast.text, "/p/demo/annotate/42")

	model, _ = app.Update(documentImportedMsg{key: "b.txt", doc: &api.SourceDocument{ID: "9", Name: "b.txt"}})
	app = model.(App)
	assert.Equal(t, "success", app.toast.level)
	assert.Contains(t, app.toast.text, "b.txt")

	model, _ = app.Update(clearToastMsg{})
	app = model.(App)
	assert.Nil(t, app.toast)
}

func TestAppQuitConfirmWithDraft(t *testing.T) {
	srv := newKBServer()
	app := newTestApp(t, srv.handler)

	list, ok := findMsg[kbListLoadedMsg](collectMsgs(app.know.loadKnowledgeBases()))
	require.True(t, ok)
	model, _ := app.Update(list)
	app = model.(App)

	model, _ = app.Update(keyCtrlT)
	app = model.(App)
	model, _ = app.Update(keyTab)
	app = model.(App)
	model, _ = app.Update(runes("n"))
	app = model.(App)
	model, _ = app.Update(runes("Paris"))
	app = model.(App)
	require.True(t, app.hasUnsaved())

	model, cmd := app.Update(keyCtrlC)
	app = model.(App)
	assert.Nil(t, cmd)
	assert.True(t, app.quitConfirm)
	assert.Contains(t, components.SanitizeText(app.View()), "unsaved draft")

	model, _ = app.Update(runes("n"))
	app = model.(App)
	assert.False(t, app.quitConfirm)
}

func TestTabIndexForKey(t *testing.T) {
	idx, ok := tabIndexForKey("1")
	assert.True(t, ok)
	assert.Equal(t, tabSearch, idx)
	idx, ok = tabIndexForKey("2")
	assert.True(t, ok)
	assert.Equal(t, tabKnow, idx)
	_, ok = tabIndexForKey("3")
	assert.False(t, ok)
	_, ok = tabIndexForKey("10")
	assert.False(t, ok)
}

func TestCenterBlockUniform(t *testing.T) {
	out := centerBlockUniform("ab\nabcd", 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "   ab", lines[0])
	assert.Equal(t, "   abcd", lines[1])
	assert.Equal(t, "abc", centerBlockUniform("abc", 0))
}
