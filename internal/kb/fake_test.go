package kb

import (
	"errors"

	"github.com/gravitrone/annotator/cli/internal/api"
)

var errBackend = errors.New("backend down")

type fakeService struct {
	concepts   map[string]*api.KBConcept
	properties map[string]*api.KBProperty
	statements map[string][]api.KBStatement
	subLabels  map[string]bool
	entities   []api.KBHandle
	fullText   []api.KBHandle

	readErr     error
	oracleErr   error
	upsertErr   error
	createErr   error
	fullTextArg string

	upserted      []api.KBStatement
	created       []string
	reads         int
	subLabelCalls []string
}

func newFakeService() *fakeService {
	return &fakeService{
		concepts:   map[string]*api.KBConcept{},
		properties: map[string]*api.KBProperty{},
		statements: map[string][]api.KBStatement{},
		subLabels:  map[string]bool{},
	}
}

func (f *fakeService) ReadConcept(_ api.KnowledgeBase, id string) (*api.KBConcept, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	c, ok := f.concepts[id]
	if !ok {
		return nil, &api.Error{StatusCode: 404, Message: "no such concept"}
	}
	cp := *c
	return &cp, nil
}

func (f *fakeService) ReadProperty(_ api.KnowledgeBase, id string) (*api.KBProperty, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	p, ok := f.properties[id]
	if !ok {
		return nil, &api.Error{StatusCode: 404, Message: "no such property"}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeService) IsSubpropertyOfLabel(_ api.KnowledgeBase, predicate string) (bool, error) {
	f.subLabelCalls = append(f.subLabelCalls, predicate)
	if f.oracleErr != nil {
		return false, f.oracleErr
	}
	return f.subLabels[predicate], nil
}

func (f *fakeService) ListStatements(_ api.KnowledgeBase, subject string) ([]api.KBStatement, error) {
	if f.oracleErr != nil {
		return nil, f.oracleErr
	}
	return f.statements[subject], nil
}

func (f *fakeService) SearchEntitiesFullText(_ api.KnowledgeBase, text string) ([]api.KBHandle, error) {
	f.fullTextArg = text
	return f.fullText, nil
}

func (f *fakeService) ListEntitiesInScope(api.KnowledgeBase) ([]api.KBHandle, error) {
	return f.entities, nil
}

func (f *fakeService) ListConcepts(api.KnowledgeBase) ([]api.KBHandle, error) {
	var out []api.KBHandle
	for _, c := range f.concepts {
		out = append(out, api.KBHandle{Identifier: c.Identifier, Name: c.Name, Kind: api.KindConcept})
	}
	return out, nil
}

func (f *fakeService) ListProperties(api.KnowledgeBase) ([]api.KBHandle, error) {
	var out []api.KBHandle
	for _, p := range f.properties {
		out = append(out, api.KBHandle{Identifier: p.Identifier, Name: p.Name, Kind: api.KindProperty})
	}
	return out, nil
}

func (f *fakeService) UpsertStatement(_ api.KnowledgeBase, stmt api.KBStatement) (*api.KBStatement, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserted = append(f.upserted, stmt)
	if c, ok := f.concepts[stmt.Subject]; ok && stmt.Property == RDFSLabel {
		c.Name = stmt.Value
	}
	return &stmt, nil
}

func (f *fakeService) CreateConcept(_ api.KnowledgeBase, c api.KBConcept) (*api.KBHandle, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.Identifier = "http://example.org/new/" + c.Name
	f.concepts[c.Identifier] = &c
	f.created = append(f.created, c.Identifier)
	return &api.KBHandle{Identifier: c.Identifier, Name: c.Name}, nil
}

func (f *fakeService) CreateProperty(_ api.KnowledgeBase, p api.KBProperty) (*api.KBHandle, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.Identifier = "http://example.org/new/" + p.Name
	f.properties[p.Identifier] = &p
	f.created = append(f.created, p.Identifier)
	return &api.KBHandle{Identifier: p.Identifier, Name: p.Name}, nil
}

func testKB() api.KnowledgeBase {
	return api.KnowledgeBase{
		ID:              "kb-1",
		Name:            "Wikidata",
		Enabled:         true,
		DefaultLanguage: "en",
		SubclassIRI:     "http://www.wikidata.org/prop/direct/P279",
	}
}

func conceptHandle(id, name string) *api.KBHandle {
	return &api.KBHandle{Identifier: id, Name: name, Kind: api.KindConcept}
}

func propertyHandle(id, name string) *api.KBHandle {
	return &api.KBHandle{Identifier: id, Name: name, Kind: api.KindProperty}
}
