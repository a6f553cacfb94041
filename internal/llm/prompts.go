package llm

import (
	"fmt"
	"strings"
)

const (
	topicGeneratorRole = "You are a professional blog topic generator."
	blogWriterRole     = "You are a professional blog writer."
)

func topicPrompt(promptType PromptType, existingTitles []string) string {
	var base string

	switch promptType {
	case PromptDefault:
		base = "Suggest ONE useful IT tool for a blog post that is NOT in this list. Only return the tool name."
	case PromptTech:
		base = "Suggest ONE technology or IT topic for a blog post that is NOT in this list. Only return the topic name."
	case PromptGuide:
		base = "Suggest ONE IT-related task or guide topic for a blog post that is NOT in this list. Only return the topic name."
	default:
		base = "Suggest ONE relevant topic for a blog post that is NOT in this list. Only return the topic name."
	}

	var sb strings.Builder

	sb.WriteString("I have already written about the following topics:\n")

	for _, title := range existingTitles {
		sb.WriteString("- ")
		sb.WriteString(title)
		sb.WriteString("\n")
	}

	sb.WriteString(base)

	return sb.String()
}

func postPrompt(promptType PromptType, topic string) string {
	switch promptType {
	case PromptDefault:
		return fmt.Sprintf("Write a blog post about %s. Focus on its practical applications, benefits, and how to get started with it. Include code examples or configuration steps where relevant. Use a human tone, no dashes, and smoother transitions.", topic)
	case PromptTech:
		return fmt.Sprintf("Write a blog post about %s. Focus on explaining complex concepts in simple terms, providing real-world examples, and offering practical insights. Use a human tone, no dashes, and smoother transitions.", topic)
	case PromptGuide:
		return fmt.Sprintf("Write a step-by-step guide for %s. Include clear instructions, code snippets or commands where needed, and explain each step thoroughly. Use a human tone, no dashes, and smoother transitions.", topic)
	default:
		return fmt.Sprintf("Write a blog post about %s.", topic)
	}
}

func tagsPrompt(content string) string {
	return fmt.Sprintf(`Generate 8-12 relevant keyword tags for a technology blog post. Focus on IT, networking, cybersecurity, and infrastructure terms.
- DO NOT include hashtag symbols (#)
- Each tag should be a simple word or phrase
- Keep tags concise and relevant
- Separate each tag with a new line
- Use lowercase except for proper nouns
- No punctuation or special characters

Content to tag:
%s`, content)
}

func categorizePrompt(title, excerpt string, categories []string) string {
	return fmt.Sprintf(`Based on the following blog post title and content, categorize it into one of these categories:
%s

Title: %s
Content: %s

Return ONLY the category name that best fits this post. Do not include any explanation or additional text.`, strings.Join(categories, ", "), title, excerpt)
}
