// Package orcid provides a client for the ORCID public API works endpoint.
package orcid

// WorksResponse is the body of GET /v3.0/{orcid}/works.
type WorksResponse struct {
	Groups []WorkGroup `json:"group"`
}

// WorkGroup clusters the summaries ORCID considers the same work.
type WorkGroup struct {
	Summaries []WorkSummary `json:"work-summary"`
}

// WorkSummary is one source's view of a work.
type WorkSummary struct {
	PutCode         int              `json:"put-code,omitempty"`
	Title           *Title           `json:"title,omitempty"`
	ExternalIDs     *ExternalIDs     `json:"external-ids,omitempty"`
	PublicationDate *PublicationDate `json:"publication-date,omitempty"`
}

// Title wraps the nested title object.
type Title struct {
	Title *Value `json:"title,omitempty"`
}

// ExternalIDs holds the identifier list of a work summary.
type ExternalIDs struct {
	IDs []ExternalID `json:"external-id"`
}

// ExternalID is a typed identifier such as a DOI or PMID.
type ExternalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
}

// PublicationDate holds optional year/month/day values.
type PublicationDate struct {
	Year  *Value `json:"year,omitempty"`
	Month *Value `json:"month,omitempty"`
	Day   *Value `json:"day,omitempty"`
}

// Value is ORCID's {"value": "..."} wrapper.
type Value struct {
	Value string `json:"value"`
}
