// Package textnorm canonicalizes blog post titles and topics for comparison.
//
// Two titles are considered the same topic when their normalized forms are
// equal. Normalization strips markdown heading markers and "Title:" prefixes,
// collapses whitespace, and lowercases. The function is pure and idempotent.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headingRe    = regexp.MustCompile(`^#+\s+`)
	titlePrefix  = regexp.MustCompile(`(?i)^title:\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize returns the canonical comparison form of a title or topic.
//
// Steps, in order: strip a leading run of '#' plus whitespace, strip a leading
// case-insensitive "title:" prefix, collapse whitespace runs to single spaces
// and trim, lowercase. Always returns a string, possibly empty.
func Normalize(text string) string {
	text = headingRe.ReplaceAllString(text, "")
	text = titlePrefix.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.ToLower(strings.TrimSpace(text))
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// DisplayTitle formats a normalized title for display by capitalizing each
// fully-lowercase word. Words that already contain uppercase letters (acronyms,
// product names) are left untouched.
func DisplayTitle(title string) string {
	words := strings.Fields(title)
	for i, w := range words {
		if w == strings.ToLower(w) {
			words[i] = titleCaser.String(w)
		}
	}

	return strings.Join(words, " ")
}
