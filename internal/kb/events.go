package kb

import (
	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/event"
)

const (
	KindConceptSelected  event.Kind = "kb.concept_selected"
	KindPropertySelected event.Kind = "kb.property_selected"
	KindNewConcept       event.Kind = "kb.new_concept"
	KindNewProperty      event.Kind = "kb.new_property"
	KindStatementChanged event.Kind = "kb.statement_changed"
)

// ConceptSelectionEvent selects a concept. A nil Selection deselects both
// concept and property, which is how a cancelled draft resets the panel.
type ConceptSelectionEvent struct {
	Selection *api.KBHandle
}

func (ConceptSelectionEvent) Kind() event.Kind { return KindConceptSelected }

// PropertySelectionEvent selects a property; nil deselects everything.
type PropertySelectionEvent struct {
	Selection *api.KBHandle
}

func (PropertySelectionEvent) Kind() event.Kind { return KindPropertySelected }

// NewConceptEvent requests a blank concept editor.
type NewConceptEvent struct{}

func (NewConceptEvent) Kind() event.Kind { return KindNewConcept }

// NewPropertyEvent requests a blank property editor.
type NewPropertyEvent struct{}

func (NewPropertyEvent) Kind() event.Kind { return KindNewProperty }

// StatementChangedEvent reports a statement written to the knowledge base.
type StatementChangedEvent struct {
	Statement api.KBStatement
}

func (StatementChangedEvent) Kind() event.Kind { return KindStatementChanged }
