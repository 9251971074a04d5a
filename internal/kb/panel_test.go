package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/event"
)

func newTestPanel(t *testing.T) (*Panel, *fakeService) {
	t.Helper()
	svc := newFakeService()
	svc.concepts["c1"] = &api.KBConcept{Identifier: "c1", Name: "City"}
	svc.properties["p1"] = &api.KBProperty{Identifier: "p1", Name: "population"}
	p := NewPanel(svc, nil, nil)
	p.SetKnowledgeBase(testKB())
	return p, svc
}

func TestPanelRequiresKnowledgeBase(t *testing.T) {
	p := NewPanel(newFakeService(), nil, nil)
	_, err := p.Dispatch(NewConceptEvent{})
	assert.ErrorIs(t, err, ErrNoKnowledgeBase)
	_, err = p.Search("a")
	assert.ErrorIs(t, err, ErrNoKnowledgeBase)
}

func TestPanelNilServicePanics(t *testing.T) {
	assert.Panics(t, func() { NewPanel(nil, nil, nil) })
}

func TestPanelSelectConceptThenProperty(t *testing.T) {
	p, _ := newTestPanel(t)

	refresh, err := p.Select(*conceptHandle("c1", "City"))
	require.NoError(t, err)
	assert.Equal(t, RefreshPanel, refresh)
	assert.Equal(t, DetailConcept, p.Detail().Kind)
	assert.Equal(t, "City", p.Detail().Concept.Name)

	_, err = p.Select(*propertyHandle("p1", "population"))
	require.NoError(t, err)
	st := p.State()
	assert.Nil(t, st.Selection.Concept)
	require.NotNil(t, st.Selection.Property)
	assert.Equal(t, DetailProperty, p.Detail().Kind)
}

func TestPanelSelectInstancePanics(t *testing.T) {
	p, _ := newTestPanel(t)
	assert.Panics(t, func() {
		p.Select(api.KBHandle{Identifier: "i1", Kind: api.KindInstance})
	})
}

func TestPanelNewConceptDraft(t *testing.T) {
	p, _ := newTestPanel(t)
	_, err := p.Select(*propertyHandle("p1", "population"))
	require.NoError(t, err)

	refresh, err := p.Dispatch(NewConceptEvent{})
	require.NoError(t, err)
	assert.Equal(t, RefreshPanel, refresh)
	assert.True(t, p.State().Selection.Empty())
	assert.True(t, p.Detail().Blank)
	assert.Equal(t, DetailConcept, p.Detail().Kind)
	assert.Equal(t, "en", p.Detail().Concept.Language)
}

func TestPanelDeselectAfterDraft(t *testing.T) {
	p, _ := newTestPanel(t)
	_, err := p.Dispatch(NewPropertyEvent{})
	require.NoError(t, err)

	_, err = p.Deselect()
	require.NoError(t, err)
	assert.Equal(t, DraftNone, p.State().Draft)
	assert.Equal(t, DetailEmpty, p.Detail().Kind)
}

func TestPanelSaveDraftSelectsCreatedEntity(t *testing.T) {
	p, svc := newTestPanel(t)
	_, err := p.Dispatch(NewConceptEvent{})
	require.NoError(t, err)

	_, err = p.SaveDraft("  Village ", "small town")
	require.NoError(t, err)
	require.Len(t, svc.created, 1)

	st := p.State()
	require.NotNil(t, st.Selection.Concept)
	assert.Equal(t, svc.created[0], st.Selection.Concept.Identifier)
	assert.Equal(t, "Village", p.Detail().Concept.Name)
	assert.Equal(t, "small town", p.Detail().Concept.Description)
	assert.False(t, p.Detail().Blank)
}

func TestPanelSaveDraftWithoutDraft(t *testing.T) {
	p, _ := newTestPanel(t)
	_, err := p.SaveDraft("x", "")
	assert.Error(t, err)
	_, err = p.Dispatch(NewPropertyEvent{})
	require.NoError(t, err)
	_, err = p.SaveDraft("   ", "")
	assert.Error(t, err)
}

func TestPanelRenameUpdatesSelectionAndDetail(t *testing.T) {
	p, svc := newTestPanel(t)
	_, err := p.Select(*conceptHandle("c1", "City"))
	require.NoError(t, err)

	refresh, err := p.Rename("Metropolis")
	require.NoError(t, err)
	assert.Equal(t, RefreshPanel, refresh)
	require.Len(t, svc.upserted, 1)
	assert.Equal(t, api.KBStatement{Subject: "c1", Property: RDFSLabel, Value: "Metropolis", Language: "en"}, svc.upserted[0])
	assert.Equal(t, "Metropolis", p.State().Selection.Concept.Name)
	assert.Equal(t, "Metropolis", p.Detail().Concept.Name)
}

func TestPanelRenameNothingSelected(t *testing.T) {
	p, svc := newTestPanel(t)
	_, err := p.Rename("x")
	assert.Error(t, err)
	assert.Empty(t, svc.upserted)
}

func TestPanelRenameBackendFailure(t *testing.T) {
	p, svc := newTestPanel(t)
	_, err := p.Select(*conceptHandle("c1", "City"))
	require.NoError(t, err)
	svc.upsertErr = errBackend

	refresh, err := p.Rename("Metropolis")
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, RefreshNone, refresh)
	assert.Equal(t, "City", p.State().Selection.Concept.Name)
}

func TestPanelStatementChangeOnSchemaPredicate(t *testing.T) {
	p, _ := newTestPanel(t)
	_, err := p.Select(*conceptHandle("c1", "City"))
	require.NoError(t, err)

	refresh, err := p.Dispatch(StatementChangedEvent{Statement: api.KBStatement{
		Subject: "c1", Property: testKB().SubclassIRI, Value: "c0",
	}})
	require.NoError(t, err)
	assert.Equal(t, RefreshPage, refresh)
}

func TestPanelCachesSubLabelAnswers(t *testing.T) {
	p, svc := newTestPanel(t)
	change := StatementChangedEvent{Statement: api.KBStatement{
		Subject: "c1", Property: "http://example.org/population", Value: "3",
	}}
	for i := 0; i < 3; i++ {
		_, err := p.Dispatch(change)
		require.NoError(t, err)
	}
	assert.Len(t, svc.subLabelCalls, 1)

	// A hierarchy change forgets what was learned.
	_, err := p.Dispatch(StatementChangedEvent{Statement: api.KBStatement{
		Subject: "http://example.org/population", Property: NamespaceRDFS + "subPropertyOf", Value: RDFSLabel,
	}})
	require.NoError(t, err)
	_, err = p.Dispatch(change)
	require.NoError(t, err)
	assert.Len(t, svc.subLabelCalls, 2)

	p.SetKnowledgeBase(testKB())
	_, err = p.Dispatch(change)
	require.NoError(t, err)
	assert.Len(t, svc.subLabelCalls, 3)
}

func TestPanelBackendFailureShowsEmptyDetail(t *testing.T) {
	p, svc := newTestPanel(t)
	svc.readErr = errBackend

	_, err := p.Select(*conceptHandle("c1", "City"))
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, DetailEmpty, p.Detail().Kind)
	assert.NotNil(t, p.State().Selection.Concept)
}

func TestPanelSharedBusReachesExtraSubscribers(t *testing.T) {
	bus := event.NewBus()
	var seen []string
	event.On(bus, func(e ConceptSelectionEvent) error {
		if e.Selection != nil {
			seen = append(seen, e.Selection.Identifier)
		}
		return nil
	})

	svc := newFakeService()
	svc.concepts["c1"] = &api.KBConcept{Identifier: "c1", Name: "City"}
	p := NewPanel(svc, bus, nil)
	p.SetKnowledgeBase(testKB())

	_, err := p.Select(*conceptHandle("c1", "City"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, seen)
	assert.Same(t, bus, p.Bus())
}

func TestPanelSetKnowledgeBaseResets(t *testing.T) {
	p, _ := newTestPanel(t)
	_, err := p.Select(*conceptHandle("c1", "City"))
	require.NoError(t, err)

	other := testKB()
	other.ID = "kb-2"
	p.SetKnowledgeBase(other)
	assert.True(t, p.State().Selection.Empty())
	assert.Equal(t, DetailEmpty, p.Detail().Kind)
	kb, ok := p.KnowledgeBase()
	assert.True(t, ok)
	assert.Equal(t, "kb-2", kb.ID)
}

func TestPanelSearchDelegates(t *testing.T) {
	p, svc := newTestPanel(t)
	svc.entities = []api.KBHandle{{Identifier: "Q1", Name: "Berlin"}}
	got, err := p.Search("be")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
