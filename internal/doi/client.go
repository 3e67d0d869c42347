// Package doi resolves DOIs to BibTeX through doi.org content negotiation.
package doi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// BaseURL is the DOI resolver.
	BaseURL = "https://doi.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// BibTeXAccept asks the registration agency for BibTeX.
	BibTeXAccept = "application/x-bibtex; charset=utf-8"

	// maxBodySize caps a single citation body.
	maxBodySize = 1024 * 1024
)

// Client fetches citation text for DOIs.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom resolver URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a resolver client. Redirects to the registration agency
// are followed by the default http.Client policy.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchBibTeX makes a single request for the DOI's citation and returns the raw body.
func (c *Client) FetchBibTeX(ctx context.Context, doi string) ([]byte, error) {
	if doi == "" {
		return nil, ErrEmptyDOI
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+escapePath(doi), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", BibTeXAccept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, DOI: doi}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%w: %s", ErrBodyTooLarge, doi)
	}
	return body, nil
}

// escapePath escapes each '/'-separated segment of a DOI so characters such
// as '#', '?' and '<' stay part of the path.
func escapePath(doi string) string {
	segments := strings.Split(doi, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
