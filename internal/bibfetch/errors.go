package bibfetch

import "errors"

// ErrRegistry marks a refresh aborted because the publication list could not
// be retrieved. The consolidated file exists (possibly empty) afterwards.
var ErrRegistry = errors.New("fetching publication list failed")

// Failure is a publication skipped during a refresh.
type Failure struct {
	DOI   string `json:"doi"`
	Error string `json:"error"`
}
