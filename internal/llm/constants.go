package llm

import "github.com/sashabaranov/go-openai"

const (
	defaultModel    = openai.GPT4
	defaultTagModel = openai.GPT3Dot5Turbo

	topicMaxTokens      = 30
	topicTemperature    = 0.7
	tagMaxTokens        = 300
	tagTemperature      = 0.5
	categoryMaxTokens   = 50
	categoryTemperature = 0.3

	// categorizeExcerptLen limits how much post body the categorization prompt
	// carries.
	categorizeExcerptLen = 500

	defaultRateLimitRPS = 1
	rateLimiterBurst    = 5
)

// CategoryUncategorized is the fallback when the model returns a category
// outside the allowed set.
const CategoryUncategorized = "Uncategorized"
