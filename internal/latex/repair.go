// Package latex rewrites BibTeX text into portable LaTeX escapes.
//
// Citations served by doi.org are usually UTF-8, but some publishers register
// metadata that was already decoded as Latin-1 somewhere upstream. Repair turns
// both the clean non-ASCII characters and the known mojibake sequences into
// escapes that every BibTeX toolchain accepts.
package latex

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rule is a single literal substitution.
type Rule struct {
	From string
	To   string
}

// rules are applied in order with plain substring replacement. Mojibake
// sequences come first, longest first: "Ã" and "“" appear inside them and
// would otherwise be rewritten before the full sequence is seen.
var rules = []Rule{
	// Double-encoded UTF-8 read as CP-1252: "\u00e2\u20ac\u201c" is an en-dash,
	// "\u00e2\u20ac" the shared prefix of the other punctuation.
	{"\u00e2\u20ac\u201c", "--"},
	{"\u00e2\u20ac", "---"},
	{"\u00c3\u00a2", `{\^a}`},
	{"\u00c3\u00a9", `{\'e}`},

	// Accents
	{"á", `{\'a}`}, {"Á", `{\'A}`}, {"à", "{\\`a}"}, {"À", "{\\`A}"}, {"ã", `{\~a}`}, {"Ã", `{\~A}`},
	{"é", `{\'e}`}, {"É", `{\'E}`}, {"è", "{\\`e}"}, {"È", "{\\`E}"},
	{"í", `{\'i}`}, {"Í", `{\'I}`},
	{"ó", `{\'o}`}, {"Ó", `{\'O}`}, {"ò", "{\\`o}"}, {"Ò", "{\\`O}"}, {"õ", `{\~o}`}, {"Õ", `{\~O}`},
	{"ú", `{\'u}`}, {"Ú", `{\'U}`}, {"ù", "{\\`u}"}, {"Ù", "{\\`U}"},
	{"ä", `{\"a}`}, {"Ä", `{\"A}`},
	{"ö", `{\"o}`}, {"Ö", `{\"O}`},
	{"ü", `{\"u}`}, {"Ü", `{\"U}`},
	{"ñ", `{\~n}`}, {"Ñ", `{\~N}`},
	{"ç", `{\c c}`}, {"Ç", `{\c C}`},

	// Dashes
	{"–", "--"},
	{"—", "---"},

	// Symbols
	{"ß", `{\ss}`},
	{"º", `^{\circ}`},
	{"°", `^{\circ}`},

	// Only the malformed ampersand encodings; a bare & is left for the author.
	{"&Amp;", `{\&}`},
	{"&amp;", `{\&}`},

	// Quotes
	{"“", "``"},
	{"”", "''"},
}

// Repair normalizes text to NFC and applies the substitution table.
func Repair(text string) string {
	text = norm.NFC.String(text)
	for _, r := range rules {
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text
}
