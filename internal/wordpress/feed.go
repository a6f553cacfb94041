package wordpress

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// FeedTitles pulls post titles from the site's RSS feed. Used as a fallback
// title source when the REST API is unreachable or unauthenticated, since the
// feed is public on stock WordPress installs.
func FeedTitles(ctx context.Context, baseURL string) ([]string, error) {
	parser := gofeed.NewParser()

	feed, err := parser.ParseURLWithContext(baseURL+"/feed/", ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	titles := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}

	return titles, nil
}
