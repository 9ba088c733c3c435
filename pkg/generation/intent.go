package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toneelevate/tonesmith/pkg/ai/llm"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/tones"
)

// FallbackIntent is used when the input cannot be parsed
const FallbackIntent = "Process the provided text"

const (
	parserTemperature = 0.2
	parserMaxTokens   = 3000
)

// ParsedIntent is the structured reading of a user's raw input
type ParsedIntent struct {
	Intent  string `json:"intent"`
	Tone    string `json:"tone"`
	Message string `json:"message"`
}

// ParseError describes why a parser response was unusable
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("intent parse failed: %s: %v", e.Reason, e.Err)
	}
	return "intent parse failed: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IntentParser extracts {intent, tone, message} from free text with one LLM call
type IntentParser struct {
	llm      llm.LLMClient
	registry *tones.Registry
	model    string
	prompt   string
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewIntentParser creates a parser. model may be empty to use the client default.
func NewIntentParser(client llm.LLMClient, registry *tones.Registry, model string, m *metrics.Metrics, log logger.Logger) *IntentParser {
	return &IntentParser{
		llm:      client,
		registry: registry,
		model:    model,
		prompt:   buildParserPrompt(registry),
		metrics:  m,
		logger:   log.With("component", "intent_parser"),
	}
}

// Parse never fails. Any LLM or decoding problem yields the fallback triple.
func (p *IntentParser) Parse(ctx context.Context, userInput string) ParsedIntent {
	parsed, err := p.parse(ctx, userInput)
	if err != nil {
		reason := "llm_error"
		var perr *ParseError
		if errors.As(err, &perr) {
			reason = "invalid_response"
		}
		p.metrics.RecordParseFallback(reason)
		p.logger.Warn("intent parsing failed, using fallback", "reason", reason, "error", err)
		return p.fallback(userInput)
	}
	return parsed
}

func (p *IntentParser) parse(ctx context.Context, userInput string) (ParsedIntent, error) {
	start := time.Now()
	resp, err := p.llm.Chat(ctx, llm.ChatRequest{
		Model: p.model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: p.prompt},
			{Role: llm.RoleUser, Content: userInput},
		},
		Temperature: parserTemperature,
		MaxTokens:   parserMaxTokens,
		JSONMode:    true,
	})
	p.metrics.RecordLLMCall("parse", time.Since(start), err)
	if err != nil {
		return ParsedIntent{}, err
	}

	parsed, tone, err := decodeIntent(resp.Message)
	if err != nil {
		return ParsedIntent{}, err
	}
	parsed.Tone = p.resolveTone(tone)
	return parsed, nil
}

// resolveTone maps a parsed tone onto the registry. nil means the model sent null.
func (p *IntentParser) resolveTone(tone *string) string {
	if tone == nil {
		return p.registry.DefaultID()
	}
	if p.registry.IsValid(*tone) {
		return *tone
	}
	p.metrics.RecordToneSubstitution()
	p.logger.Warn("parsed tone not in registry, using default", "tone", *tone, "default", p.registry.DefaultID())
	return p.registry.DefaultID()
}

func (p *IntentParser) fallback(userInput string) ParsedIntent {
	return ParsedIntent{
		Intent:  FallbackIntent,
		Tone:    p.registry.DefaultID(),
		Message: userInput,
	}
}

// decodeIntent strictly decodes a parser response. intent and message must be
// strings; tone must be a string, null or absent (returned as nil).
func decodeIntent(raw string) (ParsedIntent, *string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &fields); err != nil {
		return ParsedIntent{}, nil, &ParseError{Reason: "response is not a JSON object", Err: err}
	}
	if fields == nil {
		return ParsedIntent{}, nil, &ParseError{Reason: "response is null"}
	}

	intent, err := requiredString(fields, "intent")
	if err != nil {
		return ParsedIntent{}, nil, err
	}
	message, err := requiredString(fields, "message")
	if err != nil {
		return ParsedIntent{}, nil, err
	}

	var tone *string
	if raw, ok := fields["tone"]; ok && string(raw) != "null" {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ParsedIntent{}, nil, &ParseError{Reason: `"tone" must be a string or null`, Err: err}
		}
		tone = &s
	}

	return ParsedIntent{Intent: intent, Message: message}, tone, nil
}

func requiredString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", &ParseError{Reason: fmt.Sprintf("missing %q", key)}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || string(raw) == "null" {
		return "", &ParseError{Reason: fmt.Sprintf("%q must be a string", key), Err: err}
	}
	return s, nil
}

// stripCodeFence removes a ```json fence some OpenAI-compatible models add
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
