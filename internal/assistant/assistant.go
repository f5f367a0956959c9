// Package assistant implements Rosa, the built-in help chat. Questions that
// match the local knowledge base are answered directly; everything else goes
// to the chat model, with a fixed offline reply when no backend is available.
package assistant

import (
	"context"
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

const systemPrompt = `You are Rosa, the friendly assistant built into a file organization app.
The app uploads files, classifies them with AI into categories (Images, Documents, PDFs, Spreadsheets, Presentations, Videos, Audio, Archives, Code, Other), moves them into category folders, and can undo any organization run.
Answer questions about organizing files, supported file types, undoing runs, and library statistics.
Keep answers short, concrete, and specific to the app. If a question is unrelated to file organization, politely steer back.`

const offlineReply = "I'm having trouble reaching my language model right now. I can still help with the basics: upload files, press Organize to sort them into category folders, and use Undo to put everything back. Ask me again in a moment for anything more specific."

// Response is one assistant answer. Source reports how it was produced:
// "knowledge", "model", or "fallback".
type Response struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

// Assistant answers chat messages.
type Assistant struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	enabled     bool
	logger      *slog.Logger
}

// Option customizes the assistant.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// New constructs the assistant from application config.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Assistant {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	llm := cfg.ChatLLM()
	a := &Assistant{
		model:       llm.Model,
		maxTokens:   llm.MaxTokens,
		temperature: float32(cfg.Chat.Temperature),
		enabled:     cfg.Chat.Enabled && llm.APIKey != "",
		logger:      logging.NewComponentLogger(logger, "assistant"),
	}
	if a.enabled {
		timeout := defaultHTTPTimeout
		if llm.TimeoutSeconds > 0 {
			timeout = time.Duration(llm.TimeoutSeconds) * time.Second
		}
		httpClient := o.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: timeout}
		}
		apiCfg := openai.DefaultConfig(llm.APIKey)
		if llm.BaseURL != "" {
			apiCfg.BaseURL = llm.BaseURL
		}
		apiCfg.HTTPClient = httpClient
		a.api = openai.NewClientWithConfig(apiCfg)
	}
	return a
}

// Reply answers one user message. The knowledge base is consulted first, the
// model second, and the offline reply covers every failure.
func (a *Assistant) Reply(ctx context.Context, message string) Response {
	if answer, ok := knowledgeAnswer(message); ok {
		return Response{Reply: answer, Source: "knowledge"}
	}
	if !a.enabled {
		return Response{Reply: offlineReply, Source: "fallback"}
	}

	reply, err := a.complete(ctx, message)
	if err != nil {
		a.logger.Warn("chat completion failed, using offline reply", logging.Error(err))
		return Response{Reply: offlineReply, Source: "fallback"}
	}
	return Response{Reply: reply, Source: "model"}
}

func (a *Assistant) complete(ctx context.Context, message string) (string, error) {
	resp, err := a.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("empty completion content")
	}
	return reply, nil
}
