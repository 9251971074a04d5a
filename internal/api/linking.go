package api

// SearchEntitiesFullText runs the concept-linking full-text search of a knowledge base.
func (c *Client) SearchEntitiesFullText(kb KnowledgeBase, text string) ([]KBHandle, error) {
	body := map[string]string{"query": text}
	data, err := c.post(kbPath(kb, "search"), body)
	if err != nil {
		return nil, err
	}
	return decodeList[KBHandle](data)
}
