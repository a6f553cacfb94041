package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain title",
			input:    "Docker Guide",
			expected: "docker guide",
		},
		{
			name:     "markdown heading",
			input:    "# Docker Guide",
			expected: "docker guide",
		},
		{
			name:     "deep markdown heading",
			input:    "### Docker Guide",
			expected: "docker guide",
		},
		{
			name:     "title prefix",
			input:    "Title: docker guide",
			expected: "docker guide",
		},
		{
			name:     "title prefix case insensitive",
			input:    "TITLE:   Docker Guide",
			expected: "docker guide",
		},
		{
			name:     "whitespace runs collapsed",
			input:    "docker \t  guide",
			expected: "docker guide",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  Docker Guide  ",
			expected: "docker guide",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   \t\n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"# Docker Guide",
		"Title:  Kubernetes   Basics",
		"plain text",
		"",
		"## Title: nested  prefix",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	// All three forms must collapse to the same comparison key.
	a := Normalize("# Docker Guide")
	b := Normalize("Title: docker guide")
	c := Normalize("docker   guide")

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"docker guide", "Docker Guide"},
		{"getting started with FreeRADIUS", "Getting Started With FreeRADIUS"},
		{"ansible for iOS admins", "Ansible For iOS Admins"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DisplayTitle(tt.input))
	}
}
