package domain

import (
	"fmt"
	"net/http"
)

// HTTPError is returned when the upstream answers with a non-success status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d %s", e.Status, http.StatusText(e.Status))
}

// DecodeError is returned when the upstream body cannot be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
