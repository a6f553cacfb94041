package wordpress

import "time"

// Credentials locate and authenticate against one WordPress site. The
// application password flow is used, so Username plus AppPassword go out as
// HTTP basic auth.
type Credentials struct {
	BaseURL     string
	Username    string
	AppPassword string
}

// Post is a published WordPress post as the caller sees it.
type Post struct {
	ID          int
	URL         string
	Title       string
	Content     string
	PublishedAt time.Time
}

// Page is a WordPress page fetched with context=edit, so RawContent carries
// the block markup rather than rendered HTML.
type Page struct {
	ID         int
	RawContent string
}

// renderedField is WordPress's {rendered, raw} envelope for titles and
// content. raw is only present with context=edit.
type renderedField struct {
	Rendered string `json:"rendered"`
	Raw      string `json:"raw"`
}

type wirePost struct {
	ID      int           `json:"id"`
	Link    string        `json:"link"`
	Title   renderedField `json:"title"`
	Content renderedField `json:"content"`
	DateGMT string        `json:"date_gmt"`
}

type wirePage struct {
	ID      int           `json:"id"`
	Content renderedField `json:"content"`
}

type wireTag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
