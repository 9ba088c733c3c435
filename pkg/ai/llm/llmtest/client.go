// Package llmtest provides a scripted LLM client for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/toneelevate/tonesmith/pkg/ai/llm"
)

// ErrUnavailable simulates a provider outage
var ErrUnavailable = errors.New("llm provider unavailable")

// Client answers JSON-mode requests with ParseResponse and all other
// requests with TextResponse, recording every request.
type Client struct {
	ParseResponse string
	ParseErr      error
	TextResponse  string
	TextErr       error

	mu       sync.Mutex
	requests []llm.ChatRequest
}

var _ llm.LLMClient = (*Client)(nil)

// Chat implements llm.LLMClient
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.JSONMode {
		if c.ParseErr != nil {
			return nil, c.ParseErr
		}
		return &llm.ChatResponse{Message: c.ParseResponse, FinishReason: "stop"}, nil
	}
	if c.TextErr != nil {
		return nil, c.TextErr
	}
	return &llm.ChatResponse{Message: c.TextResponse, FinishReason: "stop"}, nil
}

// Requests returns a copy of the recorded requests
func (c *Client) Requests() []llm.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]llm.ChatRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// TextRequests returns the recorded non-JSON requests
func (c *Client) TextRequests() []llm.ChatRequest {
	var out []llm.ChatRequest
	for _, r := range c.Requests() {
		if !r.JSONMode {
			out = append(out, r)
		}
	}
	return out
}
