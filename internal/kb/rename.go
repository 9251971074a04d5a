package kb

import (
	"fmt"
	"strings"

	"github.com/gravitrone/annotator/cli/internal/api"
)

// Namespaces whose predicates define ontology structure rather than data.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"

	// RDFSLabel is the label predicate of knowledge bases that do not configure one.
	RDFSLabel = NamespaceRDFS + "label"
)

var implicitNamespaces = []string{NamespaceRDF, NamespaceRDFS, NamespaceOWL}

// Refresh says how much of the UI must be redrawn after an event.
type Refresh int

const (
	RefreshNone Refresh = iota
	// RefreshPanel redraws the knowledge-base panel only.
	RefreshPanel
	// RefreshPage reloads everything the panel shows from the backend.
	RefreshPage
)

func (r Refresh) String() string {
	switch r {
	case RefreshPanel:
		return "panel"
	case RefreshPage:
		return "page"
	default:
		return "none"
	}
}

// Max returns the wider of two refresh scopes.
func (r Refresh) Max(other Refresh) Refresh {
	if other > r {
		return other
	}
	return r
}

// LabelOracle answers the backend questions the rename check depends on.
type LabelOracle interface {
	IsSubpropertyOfLabel(kb api.KnowledgeBase, predicate string) (bool, error)
	ListStatements(kb api.KnowledgeBase, subject string) ([]api.KBStatement, error)
}

// LabelPredicate returns the label IRI configured for kb.
func LabelPredicate(kb api.KnowledgeBase) string {
	if strings.TrimSpace(kb.LabelIRI) == "" {
		return RDFSLabel
	}
	return kb.LabelIRI
}

// IsSchemaPredicate reports whether changing a statement with this predicate
// may restructure the ontology.
func IsSchemaPredicate(kb api.KnowledgeBase, predicate string) bool {
	for _, ns := range implicitNamespaces {
		if strings.HasPrefix(predicate, ns) {
			return true
		}
	}
	for _, iri := range []string{LabelPredicate(kb), kb.TypeIRI, kb.SubclassIRI, kb.SubpropertyIRI} {
		if iri != "" && predicate == iri {
			return true
		}
	}
	return false
}

// ChangeOutcome is the result of classifying a statement change.
type ChangeOutcome struct {
	Refresh Refresh
	// Rename is set when the statement assigns a label.
	Rename bool
	// RenamedConcept and RenamedProperty report which selection handle was updated.
	RenamedConcept  bool
	RenamedProperty bool
}

// ClassifyStatementChange decides what a changed statement means for the
// panel. A label change of the selected entity rewrites the cached handle name
// in sel and asks for a panel refresh; any other schema change asks for a page
// refresh; plain data changes need nothing.
//
// A sub-property of the label predicate only counts as a rename while the
// subject has no primary label. If the oracle fails, the statement is
// classified as a non-rename and the error is returned alongside.
func ClassifyStatementChange(kb api.KnowledgeBase, stmt api.KBStatement, sel *Selection, oracle LabelOracle) (ChangeOutcome, error) {
	rename, err := isRename(kb, stmt, oracle)
	if rename {
		out := ChangeOutcome{Rename: true}
		if sel != nil {
			if sel.Concept != nil && sel.Concept.Identifier == stmt.Subject {
				sel.Concept.Name = stmt.Value
				out.RenamedConcept = true
			}
			if sel.Property != nil && sel.Property.Identifier == stmt.Subject {
				sel.Property.Name = stmt.Value
				out.RenamedProperty = true
			}
		}
		if out.RenamedConcept || out.RenamedProperty {
			out.Refresh = RefreshPanel
		}
		return out, nil
	}

	if IsSchemaPredicate(kb, stmt.Property) {
		return ChangeOutcome{Refresh: RefreshPage}, err
	}
	return ChangeOutcome{}, err
}

func isRename(kb api.KnowledgeBase, stmt api.KBStatement, oracle LabelOracle) (bool, error) {
	label := LabelPredicate(kb)
	if stmt.Property == label {
		return true, nil
	}
	// Structural predicates are never label sub-properties.
	if oracle == nil || IsSchemaPredicate(kb, stmt.Property) {
		return false, nil
	}

	sub, err := oracle.IsSubpropertyOfLabel(kb, stmt.Property)
	if err != nil {
		return false, fmt.Errorf("check label sub-property %s: %w", stmt.Property, err)
	}
	if !sub {
		return false, nil
	}

	statements, err := oracle.ListStatements(kb, stmt.Subject)
	if err != nil {
		return false, fmt.Errorf("list statements of %s: %w", stmt.Subject, err)
	}
	for _, s := range statements {
		if s.Property == label {
			return false, nil
		}
	}
	return true, nil
}

// SubLabelCache is a LabelOracle that remembers sub-property answers per
// predicate for one knowledge base. Failed lookups are not remembered.
type SubLabelCache struct {
	oracle LabelOracle
	kbID   string
	known  map[string]bool
}

// NewSubLabelCache wraps oracle.
func NewSubLabelCache(oracle LabelOracle) *SubLabelCache {
	return &SubLabelCache{oracle: oracle, known: map[string]bool{}}
}

// IsSubpropertyOfLabel answers from the cache, asking the wrapped oracle once
// per predicate. Switching knowledge base empties the cache.
func (c *SubLabelCache) IsSubpropertyOfLabel(kb api.KnowledgeBase, predicate string) (bool, error) {
	if kb.ID != c.kbID {
		c.Reset()
		c.kbID = kb.ID
	}
	if sub, ok := c.known[predicate]; ok {
		return sub, nil
	}
	sub, err := c.oracle.IsSubpropertyOfLabel(kb, predicate)
	if err != nil {
		return false, err
	}
	c.known[predicate] = sub
	return sub, nil
}

// ListStatements is never cached; the answer depends on the subject's current state.
func (c *SubLabelCache) ListStatements(kb api.KnowledgeBase, subject string) ([]api.KBStatement, error) {
	return c.oracle.ListStatements(kb, subject)
}

// Reset forgets every cached answer.
func (c *SubLabelCache) Reset() {
	c.known = map[string]bool{}
}
