package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse parses an HTML document or fragment.
func Parse(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// Lines returns the text content of the selection as trimmed, non-empty
// lines in document order. Element boundaries, <br> tags and literal
// newlines inside text nodes all separate lines.
func Lines(sel *goquery.Selection) []string {
	lines := make([]string, 0)
	if sel == nil {
		return lines
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			for _, line := range strings.Split(n.Data, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// LineText returns the selection's lines joined with newlines.
func LineText(sel *goquery.Selection) string {
	return strings.Join(Lines(sel), "\n")
}

// Text returns the trimmed text content of the selection.
func Text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// FirstOf returns the first element matching the preferred selector,
// falling back to the first element matching fallback.
func FirstOf(doc *goquery.Document, preferred, fallback string) *goquery.Selection {
	sel := doc.Find(preferred).First()
	if sel.Length() == 0 {
		sel = doc.Find(fallback).First()
	}
	return sel
}

// HeadingFollowedBy finds the first heading element whose trimmed text is
// exactly text, and returns its first following sibling matching next.
// The returned selection is empty when either element is missing.
func HeadingFollowedBy(doc *goquery.Document, heading, text, next string) *goquery.Selection {
	h := doc.Find(heading).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == text
	}).First()
	return h.NextAllFiltered(next).First()
}

// SiblingsWhile returns the element siblings following sel, in order,
// for as long as they match selector. The walk stops at the first
// element sibling that does not match.
func SiblingsWhile(sel *goquery.Selection, selector string) []*goquery.Selection {
	out := make([]*goquery.Selection, 0)
	for cur := sel.Next(); cur.Length() > 0; cur = cur.Next() {
		if !cur.Is(selector) {
			break
		}
		out = append(out, cur)
	}
	return out
}
