package backend

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

const msgUnexpected = "An unexpected server error occurred."

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Describe words an error from this client for the shopper: the backend's own
// message when it answered, a reachability hint when it did not.
func (c *Client) Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgUnexpected
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Sprintf("Server Unreachable: backend at %s is failing, requests are paused.", c.baseURL)
	}
	return fmt.Sprintf("Server Unreachable: Ensure your backend server is running at %s.", c.baseURL)
}
