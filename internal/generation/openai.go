package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"study-assistant/internal/config"
)

// openaiClient generates through any OpenAI-compatible chat endpoint.
type openaiClient struct {
	endpoint    string
	model       string
	token       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

func newOpenAIClient(cfg *config.GenerationConfig) *openaiClient {
	return &openaiClient{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		token:       strings.TrimPrefix(cfg.Token, "Bearer "),
		maxTokens:   cfg.MaxNewTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout(),
	}
}

func (c *openaiClient) Generate(ctx context.Context, prompt string) (string, error) {
	llm, err := openai.New(
		openai.WithBaseURL(c.endpoint),
		openai.WithToken(c.token),
		openai.WithModel(c.model),
	)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := llm.GenerateContent(ctx, messages,
		llms.WithMaxTokens(c.maxTokens),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return res.Choices[0].Content, nil
}
