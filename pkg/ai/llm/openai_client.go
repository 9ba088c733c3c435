package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/toneelevate/tonesmith/pkg/logger"
)

// OpenAIClient wraps the OpenAI API client. It also serves any
// OpenAI-compatible endpoint through Config.BaseURL.
type OpenAIClient struct {
	client      *openai.Client
	provider    string
	model       string
	temperature float32
	maxTokens   int
	logger      logger.Logger
}

// Config for OpenAI client
type Config struct {
	APIKey      string
	BaseURL     string  // default: api.openai.com
	Model       string  // default: gpt-4o
	Temperature float32 // default: 0.7
	MaxTokens   int     // default: 1000
	Timeout     time.Duration
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg Config, log logger.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newClient("openai", clientCfg, cfg, log)
}

func newClient(provider string, clientCfg openai.ClientConfig, cfg Config, log logger.Logger) *OpenAIClient {
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	if log == nil {
		log = logger.Default()
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		provider:    provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      log.With("component", "llm", "provider", provider),
	}
}

// Chat sends a chat completion request
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	chatReq := c.buildRequest(req)

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("chat completion failed", "model", chatReq.Model, "duration", duration, "error", err)
		return nil, fmt.Errorf("%s chat failed: %w", c.provider, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", c.provider)
	}

	c.logger.Debug("chat completion finished",
		"model", chatReq.Model,
		"tokens", resp.Usage.TotalTokens,
		"duration", duration,
	)

	return &ChatResponse{
		Message:      resp.Choices[0].Message.Content,
		TokensUsed:   resp.Usage.TotalTokens,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// buildRequest converts a ChatRequest and applies client defaults
func (c *OpenAIClient) buildRequest(req ChatRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return chatReq
}
