package api

// PublishEvent records an audit event in the platform event log.
func (c *Client) PublishEvent(event AuditEvent) error {
	_, err := c.post("/api/events", event)
	return err
}
