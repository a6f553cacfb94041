package publish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePage = `<!-- wp:heading -->
<h2 class="wp-block-heading">Recent Posts</h2>
<!-- /wp:heading -->

<!-- wp:list {"className":"wp-block-list"} -->
<ul class="wp-block-list"><li><a href="https://example.com/old">Old Post</a></li></ul>
<!-- /wp:list -->

<!-- wp:heading -->
<h2 class="wp-block-heading">Security &amp; Privacy</h2>
<!-- /wp:heading -->

<!-- wp:list -->
<ul class="wp-block-list"><li><a href="https://example.com/vpn">VPN Setup</a></li></ul>
<!-- /wp:list -->`

func TestInsertInRecent(t *testing.T) {
	updated, ok := InsertInRecent(samplePage, "https://example.com/new", "New Post")

	assert.True(t, ok)
	assert.Contains(t, updated, `<li><a href="https://example.com/new">New Post</a></li>`)

	newIdx := strings.Index(updated, "example.com/new")
	oldIdx := strings.Index(updated, "example.com/old")
	assert.Less(t, newIdx, oldIdx, "new post goes to the top of the list")
}

func TestInsertInRecentDuplicate(t *testing.T) {
	updated, ok := InsertInRecent(samplePage, "https://example.com/old", "Old Post")

	assert.False(t, ok)
	assert.Equal(t, samplePage, updated)
}

func TestInsertInRecentSectionMissing(t *testing.T) {
	content := "<p>No recent posts section here.</p>"

	updated, ok := InsertInRecent(content, "https://example.com/new", "New Post")

	assert.False(t, ok)
	assert.Equal(t, content, updated)
}

func TestInsertInCategoryExistingSection(t *testing.T) {
	updated := InsertInCategory(samplePage, "https://example.com/mfa", "MFA Guide", "Security &amp; Privacy")

	assert.Contains(t, updated, `<li><a href="https://example.com/mfa">MFA Guide</a></li>`)

	mfaIdx := strings.Index(updated, "example.com/mfa")
	vpnIdx := strings.Index(updated, "example.com/vpn")
	assert.Less(t, mfaIdx, vpnIdx)
}

func TestInsertInCategoryDuplicate(t *testing.T) {
	updated := InsertInCategory(samplePage, "https://example.com/vpn", "VPN Setup", "Security &amp; Privacy")

	assert.Equal(t, samplePage, updated)
}

func TestInsertInCategoryCreatesMissingSection(t *testing.T) {
	updated := InsertInCategory(samplePage, "https://example.com/grafana", "Grafana Dashboards", "Performance Optimization")

	assert.Contains(t, updated, "<h2>Performance Optimization</h2>")
	assert.Contains(t, updated, `<li><a href="https://example.com/grafana">Grafana Dashboards</a></li>`)
	assert.True(t, strings.HasPrefix(updated, samplePage), "existing content is preserved")
}
