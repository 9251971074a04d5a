package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Health calls /api/health and returns its status string. Both the bare
// {"status": ...} body and the data envelope are accepted.
func (c *Client) Health() (string, error) {
	data, err := c.get("/api/health")
	if err != nil {
		return "", err
	}

	type health struct {
		Status string `json:"status"`
	}
	var payload struct {
		health
		Data *health `json:"data"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	status := payload.Status
	if status == "" && payload.Data != nil {
		status = payload.Data.Status
	}
	if strings.TrimSpace(status) == "" {
		return "", fmt.Errorf("health response has no status")
	}
	return status, nil
}
