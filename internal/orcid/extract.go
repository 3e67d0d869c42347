package orcid

import (
	"strconv"
	"strings"

	"github.com/matsen/orcidbib/internal/reference"
)

// DOIType is the external-id-type ORCID uses for DOIs.
const DOIType = "doi"

// ExtractPublications turns work groups into publications in discovery order.
//
// Within a group, summaries are scanned in order and the first one carrying a DOI
// produces the group's publication; later summaries of that group are ignored.
// Within a summary, only the first DOI is used. Groups with no DOI at all are
// dropped.
func ExtractPublications(works *WorksResponse) []reference.Publication {
	if works == nil {
		return nil
	}

	var pubs []reference.Publication
	for _, group := range works.Groups {
		for _, summary := range group.Summaries {
			doi := FirstDOI(summary)
			if doi == "" {
				continue
			}
			pubs = append(pubs, reference.Publication{
				DOI:  doi,
				Year: Year(summary),
			})
			break
		}
	}
	return pubs
}

// FirstDOI returns the value of the first DOI-typed external identifier of a
// summary. Scanning stops there even if the value is blank.
func FirstDOI(summary WorkSummary) string {
	if summary.ExternalIDs == nil {
		return ""
	}
	for _, id := range summary.ExternalIDs.IDs {
		if strings.EqualFold(id.Type, DOIType) {
			return reference.NormalizeDOI(id.Value)
		}
	}
	return ""
}

// Year returns the summary's publication year, or 0 when absent or not an integer.
func Year(summary WorkSummary) int {
	pd := summary.PublicationDate
	if pd == nil || pd.Year == nil {
		return 0
	}
	year, err := strconv.Atoi(strings.TrimSpace(pd.Year.Value))
	if err != nil || year < 0 {
		return 0
	}
	return year
}
