package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nijaru/ytsum/services/summary"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

const defaultHTTPTimeout = 2 * time.Minute

// Config captures the runtime settings required to talk to an
// OpenAI-compatible chat completion API.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client wraps the chat completion endpoint. Requests are sent once;
// failures are returned to the caller untouched.
type Client struct {
	api *openai.Client
}

type Option func(*openai.ClientConfig)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *openai.ClientConfig) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	for _, opt := range opts {
		opt(&clientCfg)
	}
	return &Client{api: openai.NewClientWithConfig(clientCfg)}
}

var _ summary.Completer = (*Client)(nil)

// Complete sends one chat completion. Zero sampling values are omitted from
// the request body by go-openai.
func (c *Client) Complete(ctx context.Context, req summary.CompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            req.Model,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
