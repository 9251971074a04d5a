// Package kb holds the view state of the knowledge-base panel: which entity is
// selected, which detail editor is shown, and how statement changes and
// type-ahead queries affect it. All persistence goes through the backend.
package kb

import "github.com/gravitrone/annotator/cli/internal/api"

// Selection tracks at most one selected concept and at most one selected
// property. Selecting one clears the other.
type Selection struct {
	Concept  *api.KBHandle
	Property *api.KBHandle
}

// SelectConcept clears the property and selects h. A nil h clears both.
func (s *Selection) SelectConcept(h *api.KBHandle) {
	s.Property = nil
	s.Concept = cloneHandle(h)
}

// SelectProperty clears the concept and selects h. A nil h clears both.
func (s *Selection) SelectProperty(h *api.KBHandle) {
	s.Concept = nil
	s.Property = cloneHandle(h)
}

// Clear drops both selections.
func (s *Selection) Clear() {
	s.Concept = nil
	s.Property = nil
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.Concept == nil && s.Property == nil
}

// Current returns whichever handle is selected, or nil.
func (s Selection) Current() *api.KBHandle {
	if s.Concept != nil {
		return s.Concept
	}
	return s.Property
}

func cloneHandle(h *api.KBHandle) *api.KBHandle {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}

// Draft marks a requested blank editor.
type Draft int

const (
	DraftNone Draft = iota
	DraftConcept
	DraftProperty
)

func (d Draft) String() string {
	switch d {
	case DraftConcept:
		return "concept"
	case DraftProperty:
		return "property"
	default:
		return "none"
	}
}

// State is the selection plus a pending new-entity request. A draft is only
// ever set while both selections are empty.
type State struct {
	Selection Selection
	Draft     Draft
}

// SelectConcept selects a concept (nil deselects everything) and drops any draft.
func (s *State) SelectConcept(h *api.KBHandle) {
	s.Selection.SelectConcept(h)
	s.Draft = DraftNone
}

// SelectProperty selects a property (nil deselects everything) and drops any draft.
func (s *State) SelectProperty(h *api.KBHandle) {
	s.Selection.SelectProperty(h)
	s.Draft = DraftNone
}

// NewConcept clears both selections and requests a blank concept editor.
func (s *State) NewConcept() {
	s.Selection.Clear()
	s.Draft = DraftConcept
}

// NewProperty clears both selections and requests a blank property editor.
func (s *State) NewProperty() {
	s.Selection.Clear()
	s.Draft = DraftProperty
}

// Reset returns to the initial state.
func (s *State) Reset() {
	s.Selection.Clear()
	s.Draft = DraftNone
}
