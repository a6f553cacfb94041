package publish

// Categories are the sections of the blog index page. The categorizer is
// constrained to this set; anything else falls back to Uncategorized.
var Categories = []string{
	"Cloud & Infrastructure",
	"Network Tools & Monitoring",
	"Security & Privacy",
	"Configuration & Deployment",
	"Server & System Setup",
	"Tools & Utilities",
	"Performance Optimization",
	"Web & CMS",
}
