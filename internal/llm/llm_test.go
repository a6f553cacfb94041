package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnsMockForMockKey(t *testing.T) {
	logger := zerolog.Nop()

	for _, key := range []string{"", "mock"} {
		client := New(Config{APIKey: key}, &logger)

		_, ok := client.(*mockClient)
		assert.True(t, ok, "key %q must yield the mock client", key)
	}
}

func TestTopicPromptIncludesExistingTitles(t *testing.T) {
	prompt := topicPrompt(PromptTech, []string{"Docker Guide", "Ansible Basics"})

	assert.Contains(t, prompt, "- Docker Guide\n")
	assert.Contains(t, prompt, "- Ansible Basics\n")
	assert.Contains(t, prompt, "ONE technology or IT topic")
	assert.Contains(t, prompt, "NOT in this list")
}

func TestTopicPromptVariants(t *testing.T) {
	tests := []struct {
		promptType PromptType
		want       string
	}{
		{PromptDefault, "useful IT tool"},
		{PromptTech, "technology or IT topic"},
		{PromptGuide, "IT-related task or guide topic"},
		{PromptType("unknown"), "ONE relevant topic"},
	}

	for _, tt := range tests {
		t.Run(string(tt.promptType), func(t *testing.T) {
			assert.Contains(t, topicPrompt(tt.promptType, nil), tt.want)
		})
	}
}

func TestPostPromptVariants(t *testing.T) {
	assert.Contains(t, postPrompt(PromptDefault, "Terraform"), "practical applications")
	assert.Contains(t, postPrompt(PromptTech, "Terraform"), "complex concepts in simple terms")
	assert.Contains(t, postPrompt(PromptGuide, "Terraform"), "step-by-step guide for Terraform")
	assert.Equal(t, "Write a blog post about Terraform.", postPrompt(PromptType("other"), "Terraform"))
}

func TestCleanTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "#docker", want: "docker"},
		{in: "Docker", want: "docker"},
		{in: "FreeRADIUS", want: "FreeRADIUS"},
		{in: "  load   balancing!  ", want: "load balancing"},
		{in: "ci/cd", want: "cicd"},
		{in: "###", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTag(tt.in))
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Terraform", firstLine("\n\n  Terraform  \nsecond line"))
	assert.Equal(t, "", firstLine("   \n  \n"))
}

func TestMockClient(t *testing.T) {
	logger := zerolog.Nop()
	client := New(Config{APIKey: "mock"}, &logger)
	ctx := context.Background()

	first, err := client.SuggestTopic(ctx, PromptDefault, nil)
	require.NoError(t, err)

	second, err := client.SuggestTopic(ctx, PromptDefault, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "mock topics must not repeat")

	post, err := client.GeneratePost(ctx, PromptDefault, "Terraform")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(post, "# Terraform"))

	tags, err := client.GenerateTags(ctx, post)
	require.NoError(t, err)
	assert.NotEmpty(t, tags)

	category, err := client.Categorize(ctx, "Terraform", post, []string{"Cloud & Infrastructure"})
	require.NoError(t, err)
	assert.Equal(t, "Cloud & Infrastructure", category)
}
