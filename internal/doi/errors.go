package doi

import (
	"errors"
	"fmt"
)

// Common errors returned by the resolver client.
var (
	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with DOI resolver")

	// ErrEmptyDOI indicates an empty identifier was passed in.
	ErrEmptyDOI = errors.New("empty DOI")

	// ErrBodyTooLarge indicates a citation body over the size limit.
	ErrBodyTooLarge = errors.New("citation body exceeds 1 MiB")
)

// HTTPError is a non-2xx response from the resolver.
type HTTPError struct {
	StatusCode int
	DOI        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("resolver returned status %d for %s", e.StatusCode, e.DOI)
}
