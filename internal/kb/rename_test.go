package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/annotator/cli/internal/api"
)

const altLabel = "http://www.w3.org/2004/02/skos/core#altLabel"

func TestLabelPredicateDefault(t *testing.T) {
	assert.Equal(t, RDFSLabel, LabelPredicate(api.KnowledgeBase{}))
	assert.Equal(t, "http://schema.org/name", LabelPredicate(api.KnowledgeBase{LabelIRI: "http://schema.org/name"}))
}

func TestIsSchemaPredicate(t *testing.T) {
	kb := testKB()
	tests := []struct {
		predicate string
		want      bool
	}{
		{NamespaceRDF + "type", true},
		{NamespaceRDFS + "subClassOf", true},
		{NamespaceOWL + "sameAs", true},
		{kb.SubclassIRI, true},
		{"http://example.org/population", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSchemaPredicate(kb, tt.predicate), tt.predicate)
	}
}

func TestClassifyRenameOfSelectedConcept(t *testing.T) {
	sel := Selection{Concept: conceptHandle("c1", "City")}
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c1", Property: RDFSLabel, Value: "Metropolis",
	}, &sel, newFakeService())
	require.NoError(t, err)
	assert.True(t, out.Rename)
	assert.True(t, out.RenamedConcept)
	assert.False(t, out.RenamedProperty)
	assert.Equal(t, RefreshPanel, out.Refresh)
	assert.Equal(t, "Metropolis", sel.Concept.Name)
}

func TestClassifyRenameOfOtherEntity(t *testing.T) {
	sel := Selection{Property: propertyHandle("p1", "population")}
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c9", Property: RDFSLabel, Value: "Other",
	}, &sel, newFakeService())
	require.NoError(t, err)
	assert.True(t, out.Rename)
	assert.Equal(t, RefreshNone, out.Refresh)
	assert.Equal(t, "population", sel.Property.Name)
}

func TestClassifySubLabelWithoutPrimaryLabel(t *testing.T) {
	svc := newFakeService()
	svc.subLabels[altLabel] = true
	svc.statements["c1"] = []api.KBStatement{{Subject: "c1", Property: "http://example.org/population", Value: "3"}}

	sel := Selection{Concept: conceptHandle("c1", "")}
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c1", Property: altLabel, Value: "Big Town",
	}, &sel, svc)
	require.NoError(t, err)
	assert.True(t, out.Rename)
	assert.Equal(t, "Big Town", sel.Concept.Name)
}

func TestClassifySubLabelWithPrimaryLabel(t *testing.T) {
	svc := newFakeService()
	svc.subLabels[altLabel] = true
	svc.statements["c1"] = []api.KBStatement{{Subject: "c1", Property: RDFSLabel, Value: "City"}}

	sel := Selection{Concept: conceptHandle("c1", "City")}
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c1", Property: altLabel, Value: "Big Town",
	}, &sel, svc)
	require.NoError(t, err)
	assert.False(t, out.Rename)
	assert.Equal(t, RefreshNone, out.Refresh)
	assert.Equal(t, "City", sel.Concept.Name)
}

func TestClassifySchemaChangeNeedsPageRefresh(t *testing.T) {
	sel := Selection{Concept: conceptHandle("c1", "City")}
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c1", Property: NamespaceRDFS + "subClassOf", Value: "c0",
	}, &sel, newFakeService())
	require.NoError(t, err)
	assert.False(t, out.Rename)
	assert.Equal(t, RefreshPage, out.Refresh)
}

func TestClassifyPlainDataChange(t *testing.T) {
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c1", Property: "http://example.org/population", Value: "3",
	}, nil, newFakeService())
	require.NoError(t, err)
	assert.Equal(t, ChangeOutcome{}, out)
}

func TestClassifyOracleFailure(t *testing.T) {
	svc := newFakeService()
	svc.oracleErr = errBackend

	sel := Selection{Concept: conceptHandle("c1", "City")}
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c1", Property: altLabel, Value: "Big Town",
	}, &sel, svc)
	require.ErrorIs(t, err, errBackend)
	assert.False(t, out.Rename)
	assert.Equal(t, "City", sel.Concept.Name)
}

func TestClassifyNilOracle(t *testing.T) {
	out, err := ClassifyStatementChange(testKB(), api.KBStatement{
		Subject: "c1", Property: altLabel, Value: "x",
	}, nil, nil)
	require.NoError(t, err)
	assert.False(t, out.Rename)
}

func TestClassifySchemaPredicateSkipsOracle(t *testing.T) {
	svc := newFakeService()
	kb := testKB()
	for _, predicate := range []string{NamespaceRDF + "type", NamespaceOWL + "sameAs", kb.SubclassIRI} {
		out, err := ClassifyStatementChange(kb, api.KBStatement{
			Subject: "c1", Property: predicate, Value: "c0",
		}, nil, svc)
		require.NoError(t, err)
		assert.False(t, out.Rename, predicate)
		assert.Equal(t, RefreshPage, out.Refresh, predicate)
	}
	assert.Empty(t, svc.subLabelCalls)
}

func TestSubLabelCacheAsksOncePerPredicate(t *testing.T) {
	svc := newFakeService()
	svc.subLabels[altLabel] = true
	cache := NewSubLabelCache(svc)
	kb := testKB()

	for i := 0; i < 3; i++ {
		_, err := ClassifyStatementChange(kb, api.KBStatement{
			Subject: "c1", Property: "http://example.org/population", Value: "3",
		}, nil, cache)
		require.NoError(t, err)
		out, err := ClassifyStatementChange(kb, api.KBStatement{
			Subject: "c1", Property: altLabel, Value: "Big Town",
		}, nil, cache)
		require.NoError(t, err)
		assert.True(t, out.Rename)
	}
	assert.Equal(t, []string{"http://example.org/population", altLabel}, svc.subLabelCalls)

	other := kb
	other.ID = "kb-2"
	_, err := cache.IsSubpropertyOfLabel(other, altLabel)
	require.NoError(t, err)
	assert.Len(t, svc.subLabelCalls, 3)
}

func TestSubLabelCacheSkipsFailures(t *testing.T) {
	svc := newFakeService()
	svc.oracleErr = errBackend
	cache := NewSubLabelCache(svc)

	_, err := cache.IsSubpropertyOfLabel(testKB(), altLabel)
	require.ErrorIs(t, err, errBackend)

	svc.oracleErr = nil
	svc.subLabels[altLabel] = true
	sub, err := cache.IsSubpropertyOfLabel(testKB(), altLabel)
	require.NoError(t, err)
	assert.True(t, sub)
	assert.Len(t, svc.subLabelCalls, 2)
}

func TestRefreshMax(t *testing.T) {
	assert.Equal(t, RefreshPage, RefreshPanel.Max(RefreshPage))
	assert.Equal(t, RefreshPanel, RefreshPanel.Max(RefreshNone))
	assert.Equal(t, "page", RefreshPage.String())
}
