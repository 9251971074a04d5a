package api

import "fmt"

// --- External Search Methods ---

// ListDocumentRepositories returns the external repositories configured for a project.
func (c *Client) ListDocumentRepositories(project string) ([]DocumentRepository, error) {
	data, err := c.get(fmt.Sprintf("/api/projects/%s/repositories", pathID(project)))
	if err != nil {
		return nil, err
	}
	return decodeList[DocumentRepository](data)
}

// Query runs a free-text query against one repository on behalf of user.
func (c *Client) Query(user string, repo DocumentRepository, query string) ([]ExternalSearchResult, error) {
	body := map[string]string{
		"user":  user,
		"query": query,
	}
	data, err := c.post(fmt.Sprintf("/api/repositories/%s/query", pathID(repo.ID)), body)
	if err != nil {
		return nil, err
	}
	return decodeList[ExternalSearchResult](data)
}
