package orcid

import (
	"errors"
	"fmt"
)

// Common errors returned by the ORCID client.
var (
	// ErrInvalidID indicates the ORCID iD is not of the form 0000-0000-0000-000X.
	ErrInvalidID = errors.New("invalid ORCID iD")

	// ErrNotFound indicates the ORCID record does not exist.
	ErrNotFound = errors.New("ORCID record not found")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with ORCID")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from ORCID")
)

// APIError represents a non-2xx response from the ORCID API.
type APIError struct {
	StatusCode int
	ORCID      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ORCID API error (status %d) for %s", e.StatusCode, e.ORCID)
}

// IsNotFound returns true if the error indicates the record was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
