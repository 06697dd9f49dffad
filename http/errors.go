package http

import "fmt"

// HTTPError represents a non-2xx HTTP response.
type HTTPError struct {
	// StatusCode is the HTTP status code returned.
	StatusCode int
	// Body is the response body, useful for diagnostics.
	Body []byte
}

// Error returns a string representation of the HTTP error.
func (e *HTTPError) Error() string {
	if len(e.Body) > 0 && len(e.Body) <= 200 {
		return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("http status %d", e.StatusCode)
}
