package api

import (
	"encoding/json"
	"fmt"
)

// --- Knowledge Base Methods ---

// ListKnowledgeBases returns every knowledge base of a project, enabled or not.
func (c *Client) ListKnowledgeBases(project string) ([]KnowledgeBase, error) {
	data, err := c.get(fmt.Sprintf("/api/projects/%s/knowledge-bases", pathID(project)))
	if err != nil {
		return nil, err
	}
	return decodeList[KnowledgeBase](data)
}

// ListEnabledKnowledgeBases returns the enabled knowledge bases of a project.
func (c *Client) ListEnabledKnowledgeBases(project string) ([]KnowledgeBase, error) {
	all, err := c.ListKnowledgeBases(project)
	if err != nil {
		return nil, err
	}
	enabled := make([]KnowledgeBase, 0, len(all))
	for _, kb := range all {
		if kb.Enabled {
			enabled = append(enabled, kb)
		}
	}
	return enabled, nil
}

func kbPath(kb KnowledgeBase, suffix string) string {
	return fmt.Sprintf("/api/knowledge-bases/%s/%s", pathID(kb.ID), suffix)
}

// ReadConcept fetches a concept record. Returns ErrNotFound when absent.
func (c *Client) ReadConcept(kb KnowledgeBase, identifier string) (*KBConcept, error) {
	data, err := c.get(buildQuery(kbPath(kb, "concept"), QueryParams{"iri": identifier}))
	if err != nil {
		return nil, err
	}
	return decodeOne[KBConcept](data)
}

// ReadProperty fetches a property record. Returns ErrNotFound when absent.
func (c *Client) ReadProperty(kb KnowledgeBase, identifier string) (*KBProperty, error) {
	data, err := c.get(buildQuery(kbPath(kb, "property"), QueryParams{"iri": identifier}))
	if err != nil {
		return nil, err
	}
	return decodeOne[KBProperty](data)
}

// ListConcepts returns handles for the concepts of a knowledge base.
func (c *Client) ListConcepts(kb KnowledgeBase) ([]KBHandle, error) {
	data, err := c.get(kbPath(kb, "concepts"))
	if err != nil {
		return nil, err
	}
	return decodeHandles(data, KindConcept)
}

// ListProperties returns handles for the properties of a knowledge base.
func (c *Client) ListProperties(kb KnowledgeBase) ([]KBHandle, error) {
	data, err := c.get(kbPath(kb, "properties"))
	if err != nil {
		return nil, err
	}
	return decodeHandles(data, KindProperty)
}

// decodeHandles decodes a schema listing. The endpoint decides the kind; rows
// that omit or contradict it are stamped.
func decodeHandles(data []byte, kind string) ([]KBHandle, error) {
	handles, err := decodeList[KBHandle](data)
	if err != nil {
		return nil, err
	}
	for i := range handles {
		handles[i].Kind = kind
	}
	return handles, nil
}

// ListEntitiesInScope returns every entity visible to the project in this knowledge base.
func (c *Client) ListEntitiesInScope(kb KnowledgeBase) ([]KBHandle, error) {
	data, err := c.get(kbPath(kb, "entities"))
	if err != nil {
		return nil, err
	}
	return decodeList[KBHandle](data)
}

// IsSubpropertyOfLabel reports whether the predicate is a sub-property of the KB label.
func (c *Client) IsSubpropertyOfLabel(kb KnowledgeBase, predicate string) (bool, error) {
	data, err := c.get(buildQuery(kbPath(kb, "label-properties"), QueryParams{"iri": predicate}))
	if err != nil {
		return false, err
	}
	var resp apiResponse[struct {
		Result bool `json:"result"`
	}]
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return resp.Data.Result, nil
}

// ListStatements returns the statements whose subject is the given entity.
func (c *Client) ListStatements(kb KnowledgeBase, subject string) ([]KBStatement, error) {
	data, err := c.get(buildQuery(kbPath(kb, "statements"), QueryParams{"subject": subject}))
	if err != nil {
		return nil, err
	}
	return decodeList[KBStatement](data)
}

// UpsertStatement writes a statement, replacing any statement with the same
// subject, property and language.
func (c *Client) UpsertStatement(kb KnowledgeBase, stmt KBStatement) (*KBStatement, error) {
	data, err := c.put(kbPath(kb, "statements"), stmt)
	if err != nil {
		return nil, err
	}
	return decodeOne[KBStatement](data)
}

// CreateConcept creates a concept and returns its handle.
func (c *Client) CreateConcept(kb KnowledgeBase, concept KBConcept) (*KBHandle, error) {
	data, err := c.post(kbPath(kb, "concepts"), concept)
	if err != nil {
		return nil, err
	}
	return decodeOne[KBHandle](data)
}

// CreateProperty creates a property and returns its handle.
func (c *Client) CreateProperty(kb KnowledgeBase, property KBProperty) (*KBHandle, error) {
	data, err := c.post(kbPath(kb, "properties"), property)
	if err != nil {
		return nil, err
	}
	return decodeOne[KBHandle](data)
}
