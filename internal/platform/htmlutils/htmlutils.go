// Package htmlutils has small HTML helpers shared by the publisher and sync
// worker.
package htmlutils

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags returns the text content of an HTML fragment with whitespace
// collapsed. Unparseable input comes back unchanged.
func StripTags(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var sb strings.Builder

	var traverse func(*html.Node)

	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}

		// script and style text is not content
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(doc)

	return strings.Join(strings.Fields(sb.String()), " ")
}
