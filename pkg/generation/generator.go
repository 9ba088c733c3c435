package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/toneelevate/tonesmith/pkg/ai/llm"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/tones"
)

const (
	generationTemperature = 0.7
	generationMaxTokens   = 1000
)

var errEmptyCompletion = errors.New("completion has no content")

// boilerplatePrefixes are stripped from model output, case-insensitively
var boilerplatePrefixes = withCurlyApostrophes([]string{
	"Sure, here's the message:",
	"Sure, here is the message:",
	"Sure! Here's the message:",
	"Certainly! Here's the message:",
	"Certainly, here's the message:",
	"Here's the message:",
	"Here is the message:",
	"Here's your message:",
	"Here is your message:",
	"Here's the generated message:",
	"Here is the generated message:",
	"Here's the refined message:",
	"Here is the refined message:",
	"Generated Message:",
	"Refined message:",
})

// MessageGenerator produces the final message with one LLM call
type MessageGenerator struct {
	llm      llm.LLMClient
	registry *tones.Registry
	model    string
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewMessageGenerator creates a generator. model may be empty to use the client default.
func NewMessageGenerator(client llm.LLMClient, registry *tones.Registry, model string, m *metrics.Metrics, log logger.Logger) *MessageGenerator {
	return &MessageGenerator{
		llm:      client,
		registry: registry,
		model:    model,
		metrics:  m,
		logger:   log.With("component", "message_generator"),
	}
}

// Generate writes the message for intent shaped by req's context, format and length
func (g *MessageGenerator) Generate(ctx context.Context, intent ParsedIntent, req GenerationRequest) (string, error) {
	system, user := buildGenerationPrompt(intent, g.registry.Instructions(intent.Tone), req)

	start := time.Now()
	resp, err := g.llm.Chat(ctx, llm.ChatRequest{
		Model: g.model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	g.metrics.RecordLLMCall("generate", time.Since(start), err)
	if err != nil {
		return "", domain.NewGenerationError(err)
	}

	message := StripBoilerplate(resp.Message)
	if message == "" {
		return "", domain.NewGenerationError(errEmptyCompletion)
	}

	g.logger.Debug("message generated",
		"tone", intent.Tone,
		"context", req.Context,
		"output_length", req.OutputLength,
		"tokens", resp.TokensUsed,
	)
	return message, nil
}

// StripBoilerplate trims whitespace and removes known lead-in phrases,
// repeatedly, so stacked preambles are removed too.
func StripBoilerplate(s string) string {
	s = strings.TrimSpace(s)
	for {
		prefix, ok := matchPrefix(s)
		if !ok {
			return s
		}
		s = strings.TrimSpace(s[len(prefix):])
	}
}

func matchPrefix(s string) (string, bool) {
	for _, p := range boilerplatePrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return p, true
		}
	}
	return "", false
}

// withCurlyApostrophes adds a typographic-apostrophe variant of each phrase
func withCurlyApostrophes(phrases []string) []string {
	out := make([]string, 0, len(phrases)*2)
	for _, p := range phrases {
		out = append(out, p)
		if strings.Contains(p, "'") {
			out = append(out, strings.ReplaceAll(p, "'", "’"))
		}
	}
	return out
}
