// Package groq generates through Groq's OpenAI-compatible chat API.
package groq

import (
	"github.com/shoptalk/agent/generator"
	"github.com/shoptalk/agent/generator/openai"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	baseURL := options.BaseURL
	if len(baseURL) == 0 {
		baseURL = defaultBaseURL
	}

	return openai.NewGenerator(
		generator.WithApiKey(options.ApiKey),
		generator.WithBaseURL(baseURL),
		generator.WithModel(options.Model),
		generator.WithMaxTokens(options.MaxTokens),
		generator.WithPromptPrefix(options.PromptPrefix),
	)
}
