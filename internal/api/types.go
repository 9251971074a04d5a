package api

import "time"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string

// --- External Search ---

// DocumentRepository is an external document source configured for a project.
type DocumentRepository struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
}

// Highlight is one matched snippet inside a search hit. The snippet may carry
// <em> markup around the matched terms.
type Highlight struct {
	Highlight   string `json:"highlight"`
	OffsetStart *int   `json:"offset_start,omitempty"`
	OffsetEnd   *int   `json:"offset_end,omitempty"`
}

// ExternalSearchResult is one hit returned by an external document repository.
type ExternalSearchResult struct {
	DocumentTitle string      `json:"document_title"`
	DocumentID    string      `json:"document_id"`
	URI           string      `json:"uri"`
	Score         float64     `json:"score"`
	Highlights    []Highlight `json:"highlights"`
	Language      string      `json:"language,omitempty"`
	Timestamp     string      `json:"timestamp,omitempty"`
}

// SourceDocument is a document already present in a project.
type SourceDocument struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"project_id"`
	State     string `json:"state,omitempty"`
}

// ImportDocumentInput asks the platform to transfer a repository document into a project.
type ImportDocumentInput struct {
	User         string `json:"user"`
	Title        string `json:"title"`
	RepositoryID string `json:"repository_id"`
}

// --- Knowledge Base ---

// KnowledgeBase is a configured RDF store plus the metadata the UI needs.
type KnowledgeBase struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProjectID       string `json:"project_id"`
	Enabled         bool   `json:"enabled"`
	ReadOnly        bool   `json:"read_only"`
	DefaultLanguage string `json:"default_language,omitempty"`
	LabelIRI        string `json:"label_iri"`
	TypeIRI         string `json:"type_iri,omitempty"`
	SubclassIRI     string `json:"subclass_iri,omitempty"`
	SubpropertyIRI  string `json:"subproperty_iri,omitempty"`
	FullTextSearch  bool   `json:"full_text_search"`
}

// Handle kinds.
const (
	KindConcept  = "concept"
	KindProperty = "property"
	KindInstance = "instance"
)

// KBHandle is a lightweight reference to a knowledge-base entity.
type KBHandle struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Language    string `json:"language,omitempty"`
}

// UIName returns the label, or the identifier when the entity has no label.
func (h KBHandle) UIName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.Identifier
}

// KBStatement is a single triple about a knowledge-base entity.
type KBStatement struct {
	Subject  string `json:"subject"`
	Property string `json:"property"`
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
}

// KBConcept is the full record of a concept (class).
type KBConcept struct {
	Identifier  string        `json:"identifier"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Language    string        `json:"language,omitempty"`
	Statements  []KBStatement `json:"statements,omitempty"`
}

// KBProperty is the full record of a property.
type KBProperty struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Range       string `json:"range,omitempty"`
	Language    string `json:"language,omitempty"`
}

// --- Events ---

// AuditEvent is an observability record sent to the platform event log.
type AuditEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Project    string            `json:"project,omitempty"`
	User       string            `json:"user,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// --- Auth ---

// LoginInput is the login request payload.
type LoginInput struct {
	Username string `json:"username"`
}

// LoginResponse contains the session information after successful login.
type LoginResponse struct {
	APIKey   string `json:"api_key"`
	Username string `json:"username"`
	Project  string `json:"project,omitempty"`
}
