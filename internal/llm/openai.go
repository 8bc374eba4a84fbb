package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrMissingAPIKey is returned when a client is built without credentials.
var ErrMissingAPIKey = errors.New("API key is required")

// OpenAIClient implements Client for OpenAI-compatible chat completions
// endpoints (api.openai.com, OpenRouter, local gateways).
type OpenAIClient struct {
	textLLM *openai.LLM
	jsonLLM *openai.LLM
	config  *Config
}

// NewOpenAIClient creates a client for config.BaseURL (default
// DefaultOpenAIBaseURL).
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultOpenAIConfig()
	}
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithHTTPClient(&http.Client{Timeout: config.CallTimeout()}),
	}
	if model := config.GetModel(TierStandard); model != "" {
		opts = append(opts, openai.WithModel(model))
	}

	textLLM, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	jsonLLM, err := openai.New(append(opts, openai.WithResponseFormat(openai.ResponseFormatJSON))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIClient{textLLM: textLLM, jsonLLM: jsonLLM, config: config}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, c.textLLM, prompt, tier)
}

// GenerateJSON requests a JSON object response and strips code fences.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, c.jsonLLM, prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) complete(ctx context.Context, model llms.Model, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout())
	defer cancel()

	resp, err := model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithModel(modelName),
		llms.WithTemperature(0.1),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("failed to generate content: no choices in response")
	}
	return resp.Choices[0].Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no exclusive resources.
func (c *OpenAIClient) Close() error {
	return nil
}
