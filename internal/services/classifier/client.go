package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"thanos/internal/config"
	"thanos/internal/logging"
)

const defaultHTTPTimeout = 15 * time.Second

// Client classifies files through an OpenAI-compatible chat completion API.
// A zero API key disables the backend entirely; every call then resolves
// through the fallback.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	enabled   bool
	logger    *slog.Logger
}

// Option customizes the client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// New constructs a classifier client from resolved LLM settings.
func New(cfg config.LLMConfig, logger *slog.Logger, opts ...Option) *Client {
	options := clientOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	client := &Client{
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		enabled:   cfg.APIKey != "",
		logger:    logging.NewComponentLogger(logger, "classifier"),
	}
	if client.enabled {
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = cfg.BaseURL
		}
		apiCfg.HTTPClient = httpClient
		client.api = openai.NewClientWithConfig(apiCfg)
	}
	return client
}

// Classify requests one classification from the model. Any failure, from
// transport errors to malformed payloads, resolves through Fallback; the
// caller always receives a usable result. A single attempt is made, no
// retries.
func (c *Client) Classify(ctx context.Context, info FileInfo) Classification {
	if !c.enabled {
		return Fallback(info)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(info)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Warn("classification request failed, using fallback",
			logging.String("file", info.Name),
			logging.Error(err),
		)
		return Fallback(info)
	}

	result, err := decodeClassification(resp)
	if err != nil {
		c.logger.Warn("classification payload unusable, using fallback",
			logging.String("file", info.Name),
			logging.Error(err),
		)
		return Fallback(info)
	}

	result.Category = NormalizeCategory(result.Category)
	result.Confidence = clampConfidence(result.Confidence)
	if strings.TrimSpace(result.SuggestedName) == "" {
		result.SuggestedName = info.Name
	}
	return result
}

func decodeClassification(resp openai.ChatCompletionResponse) (Classification, error) {
	if len(resp.Choices) == 0 {
		return Classification{}, errors.New("no completion choices")
	}
	payload := sanitizeJSONPayload(resp.Choices[0].Message.Content)
	if payload == "" {
		return Classification{}, errors.New("empty completion content")
	}
	var result Classification
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return Classification{}, err
	}
	if strings.TrimSpace(result.Category) == "" {
		return Classification{}, errors.New("classification missing category")
	}
	return result, nil
}

// sanitizeJSONPayload tolerates models that wrap JSON in code fences or
// surrounding prose.
func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFenceBlock(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func clampConfidence(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}
