// Package postprocess touches up the rendered publications page: it bolds the
// site owner's surname in each citation and ships the per-publication .bib
// files next to the page.
package postprocess

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// EntryClass marks a rendered citation container.
const EntryClass = "csl-entry"

// HighlightAuthor wraps every occurrence of author in text inside csl-entry
// divs with <strong>. Tag markup, attribute values, text already inside
// <strong> or <b>, and everything outside citation entries are left byte for
// byte as they were.
func HighlightAuthor(content, author string) string {
	if author == "" || !strings.Contains(content, author) {
		return content
	}

	z := html.NewTokenizer(strings.NewReader(content))
	var out bytes.Buffer
	out.Grow(len(content) + 64)

	replacement := "<strong>" + author + "</strong>"
	entryDepth := 0 // div nesting inside the current csl-entry, 0 outside
	emphasis := 0

	for {
		tt := z.Next()
		// TagName and TagAttr lowercase the buffer in place, so copy first.
		raw := append([]byte(nil), z.Raw()...)

		switch tt {
		case html.ErrorToken:
			out.Write(raw)
			return out.String()

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "div":
				if entryDepth > 0 {
					entryDepth++
				} else if hasAttr && hasClass(z, EntryClass) {
					entryDepth = 1
				}
			case "strong", "b":
				if entryDepth > 0 {
					emphasis++
				}
			}
			out.Write(raw)

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "div":
				if entryDepth > 0 {
					entryDepth--
					if entryDepth == 0 {
						emphasis = 0
					}
				}
			case "strong", "b":
				if emphasis > 0 {
					emphasis--
				}
			}
			out.Write(raw)

		case html.TextToken:
			if entryDepth > 0 && emphasis == 0 {
				out.WriteString(strings.ReplaceAll(string(raw), author, replacement))
			} else {
				out.Write(raw)
			}

		default:
			out.Write(raw)
		}
	}
}

// hasClass reports whether the current tag's class attribute lists class.
func hasClass(z *html.Tokenizer, class string) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, c := range strings.Fields(string(val)) {
				if strings.EqualFold(c, class) {
					return true
				}
			}
		}
		if !more {
			return false
		}
	}
}
