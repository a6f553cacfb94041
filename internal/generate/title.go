package generate

import (
	"regexp"
	"strings"
)

// Exactly one # so deeper headings stay in the body.
var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// ExtractTitle splits generated markdown into a title and body. A markdown H1
// anywhere in the content wins and is removed from the body; otherwise the
// first line becomes the title and the rest the body.
func ExtractTitle(content string) (string, string) {
	if m := h1Re.FindStringSubmatch(content); m != nil {
		title := strings.TrimSpace(m[1])
		body := strings.TrimSpace(h1Re.ReplaceAllString(content, ""))

		return title, body
	}

	trimmed := strings.TrimSpace(content)

	parts := strings.SplitN(trimmed, "\n", 2)
	title := strings.TrimSpace(parts[0])

	body := ""
	if len(parts) > 1 {
		body = strings.TrimSpace(parts[1])
	}

	return title, body
}
