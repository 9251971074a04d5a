package kb

import (
	"errors"
	"fmt"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/metrics"
)

// DetailKind tags which editor occupies the detail region.
type DetailKind int

const (
	DetailEmpty DetailKind = iota
	DetailConcept
	DetailProperty
)

func (k DetailKind) String() string {
	switch k {
	case DetailConcept:
		return "concept"
	case DetailProperty:
		return "property"
	default:
		return "empty"
	}
}

// DetailView is the content of the detail region. Exactly one of Concept and
// Property is set, matching Kind; both are nil for DetailEmpty.
type DetailView struct {
	Kind     DetailKind
	Concept  *api.KBConcept
	Property *api.KBProperty
	// Blank marks an editor for a not yet created entity.
	Blank bool
	// Placeholder marks a concept that was selected but not found in the store.
	Placeholder bool
}

// Identifier returns the identifier of the shown entity, if any.
func (v DetailView) Identifier() string {
	switch {
	case v.Concept != nil:
		return v.Concept.Identifier
	case v.Property != nil:
		return v.Property.Identifier
	}
	return ""
}

// Lookup reads full records for selected handles. Implementations return an
// error matching api.ErrNotFound when the entity does not exist.
type Lookup interface {
	ReadConcept(kb api.KnowledgeBase, identifier string) (*api.KBConcept, error)
	ReadProperty(kb api.KnowledgeBase, identifier string) (*api.KBProperty, error)
}

// RenderDetail derives the detail view from the panel state. A backend failure
// yields an empty view together with the error.
func RenderDetail(kb api.KnowledgeBase, state State, lookup Lookup) (DetailView, error) {
	switch state.Draft {
	case DraftConcept:
		return DetailView{
			Kind:    DetailConcept,
			Concept: &api.KBConcept{Language: kb.DefaultLanguage},
			Blank:   true,
		}, nil
	case DraftProperty:
		return DetailView{
			Kind:     DetailProperty,
			Property: &api.KBProperty{Language: kb.DefaultLanguage},
			Blank:    true,
		}, nil
	}

	sel := state.Selection
	switch {
	case sel.Concept != nil:
		return renderConcept(kb, sel.Concept.Identifier, lookup)
	case sel.Property != nil:
		return renderProperty(kb, sel.Property.Identifier, lookup)
	}
	return DetailView{}, nil
}

func renderConcept(kb api.KnowledgeBase, identifier string, lookup Lookup) (DetailView, error) {
	done := metrics.TimeCall("kb.read_concept")
	concept, err := lookup.ReadConcept(kb, identifier)
	switch {
	case errors.Is(err, api.ErrNotFound):
		concept = nil
	case err != nil:
		done(false)
		return DetailView{}, fmt.Errorf("read concept %s: %w", identifier, err)
	}
	done(true)
	if concept == nil {
		return DetailView{
			Kind:        DetailConcept,
			Concept:     &api.KBConcept{Identifier: identifier},
			Placeholder: true,
		}, nil
	}
	return DetailView{Kind: DetailConcept, Concept: concept}, nil
}

func renderProperty(kb api.KnowledgeBase, identifier string, lookup Lookup) (DetailView, error) {
	done := metrics.TimeCall("kb.read_property")
	property, err := lookup.ReadProperty(kb, identifier)
	switch {
	case errors.Is(err, api.ErrNotFound):
		property = nil
	case err != nil:
		done(false)
		return DetailView{}, fmt.Errorf("read property %s: %w", identifier, err)
	}
	done(true)
	if property == nil {
		return DetailView{}, nil
	}
	return DetailView{Kind: DetailProperty, Property: property}, nil
}
