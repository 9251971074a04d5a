package api

import (
	"encoding/json"
	"fmt"
)

// --- Document Methods ---

// ExistsSourceDocument reports whether a document with this title is in the project.
func (c *Client) ExistsSourceDocument(project, title string) (bool, error) {
	path := buildQuery(fmt.Sprintf("/api/projects/%s/documents/exists", pathID(project)), QueryParams{
		"title": title,
	})
	data, err := c.get(path)
	if err != nil {
		return false, err
	}
	var resp apiResponse[struct {
		Exists bool `json:"exists"`
	}]
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return resp.Data.Exists, nil
}

// GetSourceDocument fetches a project document by title.
func (c *Client) GetSourceDocument(project, title string) (*SourceDocument, error) {
	path := buildQuery(fmt.Sprintf("/api/projects/%s/documents/by-title", pathID(project)), QueryParams{
		"title": title,
	})
	data, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return decodeOne[SourceDocument](data)
}

// ImportDocument transfers a document from an external repository into the project.
func (c *Client) ImportDocument(user, project, title string, repo DocumentRepository) (*SourceDocument, error) {
	input := ImportDocumentInput{
		User:         user,
		Title:        title,
		RepositoryID: repo.ID,
	}
	data, err := c.post(fmt.Sprintf("/api/projects/%s/documents/import", pathID(project)), input)
	if err != nil {
		return nil, fmt.Errorf("import %q: %w", title, err)
	}
	return decodeOne[SourceDocument](data)
}
