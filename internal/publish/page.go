package publish

import (
	"fmt"
	"regexp"
	"strings"
)

// recentPostsRe locates the "Recent Posts" list in the blog page's block
// markup. Group 1 is everything through the opening <ul>, group 2 the list
// items, group 3 the closing tag.
var recentPostsRe = regexp.MustCompile(`(?s)(<h2 class="wp-block-heading">Recent Posts</h2>.*?<ul class="wp-block-list">)(.*?)(</ul>)`)

func listItem(postURL, postTitle string) string {
	return fmt.Sprintf(`<li><a href="%s">%s</a></li>`, postURL, postTitle)
}

// InsertInRecent prepends a post link to the Recent Posts list. Returns the
// unchanged content and false when the link is already present or the section
// is missing.
func InsertInRecent(content, postURL, postTitle string) (string, bool) {
	item := listItem(postURL, postTitle)
	if strings.Contains(content, item) {
		return content, false
	}

	loc := recentPostsRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, false
	}

	// end of group 1, right after the opening <ul>
	at := loc[3]

	return content[:at] + item + content[at:], true
}

// InsertInCategory adds a post link to the named category section, creating
// the section at the end of the page when it does not exist yet. Links
// already present are left alone.
func InsertInCategory(content, postURL, postTitle, category string) string {
	item := listItem(postURL, postTitle)

	sectionRe := regexp.MustCompile(`(?si)(<h2[^>]*>` + regexp.QuoteMeta(category) + `</h2>.*?<ul[^>]*>)(.*?)(</ul>)`)

	loc := sectionRe.FindStringSubmatchIndex(content)
	if loc == nil {
		block := fmt.Sprintf(
			"<!-- wp:heading -->\n<h2>%s</h2>\n<!-- /wp:heading -->\n\n<!-- wp:list -->\n<ul>\n%s\n</ul>\n<!-- /wp:list -->\n",
			category, item,
		)

		return content + "\n" + block
	}

	if strings.Contains(content[loc[4]:loc[5]], item) {
		return content
	}

	at := loc[3]

	return content[:at] + item + content[at:]
}
