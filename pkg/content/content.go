// Package content handles the constrained rich-text markup stored in
// shape content: a small tag set for bold/italic/underline/lists plus
// span-based inline math markers. Anything outside that set is reduced
// to escaped text, so raw untrusted markup never reaches storage, the
// renderer, or an export.
package content

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// allowedTags is the closed tag set that survives sanitization.
var allowedTags = map[string]bool{
	"b": true, "strong": true,
	"i": true, "em": true,
	"u":  true,
	"ul": true, "ol": true, "li": true,
	"br":   true,
	"span": true, // carries the inline math marker class only
}

// allowedSpanClasses limits the class attribute kept on span tags.
var allowedSpanClasses = map[string]bool{
	"math": true,
}

// Sanitize reduces markup to the allowed tag set. Disallowed tags are
// dropped while their text content is kept. Attributes are stripped,
// except a recognized class on span. If the markup cannot be tokenized
// safely the whole input is escaped as plain text.
func Sanitize(markup string) string {
	if markup == "" {
		return ""
	}

	var sb strings.Builder
	var open []string // allowed tags currently open, for balancing

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != nil && !errors.Is(z.Err(), io.EOF) {
				// Tokenizer gave up: fall back to plain-text escaping.
				return html.EscapeString(markup)
			}
			// Close anything left open.
			for i := len(open) - 1; i >= 0; i-- {
				sb.WriteString("</" + open[i] + ">")
			}
			return sb.String()

		case html.TextToken:
			sb.WriteString(html.EscapeString(string(z.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if !allowedTags[tag] {
				continue // drop the tag, keep walking its content
			}
			if tag == "br" {
				sb.WriteString("<br/>")
				continue
			}
			class := ""
			if tag == "span" && hasAttr {
				class = spanClass(z)
			}
			if class != "" {
				sb.WriteString(`<span class="` + class + `">`)
			} else {
				sb.WriteString("<" + tag + ">")
			}
			if tt == html.StartTagToken {
				open = append(open, tag)
			} else {
				sb.WriteString("</" + tag + ">")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !allowedTags[tag] || tag == "br" {
				continue
			}
			// Only close a tag that is actually open.
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] == tag {
					sb.WriteString("</" + tag + ">")
					open = append(open[:i], open[i+1:]...)
					break
				}
			}
		}
	}
}

// spanClass extracts a recognized class attribute value, or empty.
func spanClass(z *html.Tokenizer) string {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" && allowedSpanClasses[string(val)] {
			return string(val)
		}
		if !more {
			return ""
		}
	}
}

// Flatten reduces markup to plain text for search indexing and raster
// export. Block-ish tags become separators so words do not run together.
func Flatten(markup string) string {
	if markup == "" {
		return ""
	}

	var parts []string
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(parts, "")

		case html.TextToken:
			parts = append(parts, string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br", "li", "ul", "ol":
				if n := len(parts); n > 0 && !strings.HasSuffix(parts[n-1], "\n") {
					parts = append(parts, "\n")
				}
			}
		}
	}
}
