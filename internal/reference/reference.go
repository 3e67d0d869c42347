// Package reference defines the core domain types for publications pulled from ORCID.
package reference

import (
	"sort"
	"strings"
)

// Publication is one ORCID work resolved to its DOI.
type Publication struct {
	DOI  string `json:"doi"`  // First DOI listed for the work
	Year int    `json:"year"` // Publication year, 0 if unknown
}

// HasYear reports whether the publication year is known.
func (p Publication) HasYear() bool {
	return p.Year > 0
}

// Sort orders publications newest first. Publications without a year go last.
// Ties keep their discovery order.
func Sort(pubs []Publication) {
	sort.SliceStable(pubs, func(i, j int) bool {
		return pubs[i].Year > pubs[j].Year
	})
}

// NormalizeDOI strips resolver prefixes so DOIs compare equal regardless of how
// the registry formatted them. Case is preserved; DOIs are case-insensitive but the
// resolver echoes the registered casing back in citation keys.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "https://dx.doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return doi
}
