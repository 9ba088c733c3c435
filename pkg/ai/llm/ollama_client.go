package llm

import (
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/toneelevate/tonesmith/pkg/logger"
)

// OllamaConfig for a local Ollama server
type OllamaConfig struct {
	BaseURL     string  // default: http://localhost:11434/v1
	Model       string  // default: llama3.1:8b
	Temperature float32 // default: 0.7
	MaxTokens   int     // default: 1000
	Timeout     time.Duration
}

// NewOllamaClient talks to Ollama through its OpenAI-compatible API
func NewOllamaClient(cfg OllamaConfig, log logger.Logger) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.1:8b"
	}

	clientCfg := openai.DefaultConfig("ollama") // API key not needed for Ollama
	clientCfg.BaseURL = cfg.BaseURL

	return newClient("ollama", clientCfg, Config{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, log)
}
