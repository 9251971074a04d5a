package api

import "time"

// DefaultBaseURL is the platform API used when the config does not name one.
const DefaultBaseURL = "http://localhost:8080"

// NewDefaultClient builds a client pointed at the default platform URL.
func NewDefaultClient(apiKey string, timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, apiKey, timeout...)
}
