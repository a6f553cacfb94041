package wordpress

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/blogpilot/blogpilot/internal/platform/htmlutils"
)

// PlainText reduces a post's rendered HTML to readable text. Readability
// handles full documents well; short fragments fall back to plain tag
// stripping.
func PlainText(htmlContent, postURL string) string {
	u, _ := url.Parse(postURL)

	article, err := readability.FromReader(strings.NewReader(htmlContent), u)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.TextContent)
	}

	return htmlutils.StripTags(htmlContent)
}
