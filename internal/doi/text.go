package doi

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Extension is the file extension for individual citation files.
const Extension = ".bib"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Slugify maps a DOI to a file name stem by replacing every character outside
// [A-Za-z0-9_-] with '_'. Distinct DOIs may collide.
func Slugify(doi string) string {
	return unsafeChars.ReplaceAllString(doi, "_")
}

// FileName returns the individual citation file name for a DOI.
func FileName(doi string) string {
	return Slugify(doi) + Extension
}

// DecodeBody interprets a response body as UTF-8, falling back to ISO-8859-1
// when the bytes are not valid UTF-8. Surrounding whitespace is trimmed.
func DecodeBody(body []byte) (string, error) {
	if utf8.Valid(body) {
		return strings.TrimSpace(string(body)), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(decoded)), nil
}
