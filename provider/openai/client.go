// Package openai provides a chat client backed by the OpenAI API, or any
// OpenAI-compatible endpoint such as a local Ollama server via WithBaseURL.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/chat"
)

// DefaultModel is used when no model is configured or requested.
const DefaultModel = "gpt-4o-mini"

// Client wraps the OpenAI SDK to implement chat.Client.
type Client struct {
	client *openai.Client
	model  string
}

type config struct {
	model       string
	requestOpts []option.RequestOption
}

// ClientOption configures the OpenAI client.
type ClientOption func(*config)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *config) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint, e.g.
// "http://localhost:11434/v1" for Ollama.
func WithBaseURL(url string) ClientOption {
	return func(c *config) {
		c.requestOpts = append(c.requestOpts, option.WithBaseURL(url))
	}
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := config{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	requestOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.requestOpts...)
	client := openai.NewClient(requestOpts...)
	return &Client{
		client: &client,
		model:  cfg.model,
	}
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return &ai.Response{}, nil
	}

	return &ai.Response{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case ai.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

var _ chat.Client = (*Client)(nil)
