package kb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/annotator/cli/internal/api"
)

func TestListSearchResultsPrefixFilter(t *testing.T) {
	svc := newFakeService()
	svc.entities = []api.KBHandle{
		{Identifier: "Q2", Name: "Bern", Kind: api.KindConcept},
		{Identifier: "Q1", Name: "Berlin", Kind: api.KindConcept},
		{Identifier: "Q3", Name: "Paris", Kind: api.KindConcept},
		{Identifier: "Q1", Name: "Berlin", Kind: api.KindInstance},
	}

	got, err := ListSearchResults(testKB(), "Ber", svc)
	require.NoError(t, err)

	want := []api.KBHandle{
		{Identifier: "Q1", Name: "Berlin", Kind: api.KindConcept},
		{Identifier: "Q2", Name: "Bern", Kind: api.KindConcept},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestListSearchResultsCaseInsensitive(t *testing.T) {
	svc := newFakeService()
	svc.entities = []api.KBHandle{
		{Identifier: "Q1", Name: "Berlin"},
		{Identifier: "http://example.org/bern"},
	}

	got, err := ListSearchResults(testKB(), "BER", svc)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Q1", got[0].Identifier)

	got, err = ListSearchResults(testKB(), "http://example", svc)
	require.NoError(t, err)
	require.Len(t, got, 1, "unlabeled entities match on identifier")
}

func TestListSearchResultsEmptyPrefixListsAll(t *testing.T) {
	svc := newFakeService()
	svc.entities = []api.KBHandle{{Identifier: "b", Name: "b"}, {Identifier: "a", Name: "a"}}
	got, err := ListSearchResults(testKB(), "", svc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
}

func TestListSearchResultsFullTextKeepsRanking(t *testing.T) {
	svc := newFakeService()
	svc.fullText = []api.KBHandle{
		{Identifier: "Q2", Name: "Zurich"},
		{Identifier: "Q1", Name: "Aarau"},
		{Identifier: "Q2", Name: "Zurich"},
	}
	kb := testKB()
	kb.FullTextSearch = true

	got, err := ListSearchResults(kb, "zu", svc)
	require.NoError(t, err)
	assert.Equal(t, svc.fullText, got)
	assert.Equal(t, "zu", svc.fullTextArg)
}

func TestSelectable(t *testing.T) {
	assert.True(t, Selectable(api.KBHandle{Kind: api.KindConcept}))
	assert.True(t, Selectable(api.KBHandle{Kind: api.KindProperty}))
	assert.False(t, Selectable(api.KBHandle{Kind: api.KindInstance}))
}

func TestPickerVisible(t *testing.T) {
	assert.False(t, PickerVisible(nil))
	assert.False(t, PickerVisible([]api.KnowledgeBase{{ID: "a"}}))
	assert.True(t, PickerVisible([]api.KnowledgeBase{{ID: "a"}, {ID: "b"}}))
}

func TestDefaultIndex(t *testing.T) {
	kbs := []api.KnowledgeBase{{ID: "a", Name: "Geo"}, {ID: "b", Name: "Bio"}}
	assert.Equal(t, 1, DefaultIndex(kbs, "bio"))
	assert.Equal(t, 1, DefaultIndex(kbs, " b "))
	assert.Equal(t, 0, DefaultIndex(kbs, "missing"))
	assert.Equal(t, 0, DefaultIndex(kbs, ""))
	assert.Equal(t, 0, DefaultIndex(nil, "geo"))
}
