package generation

import (
	"context"

	"github.com/toneelevate/tonesmith/pkg/auth"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/quota"
)

// IdentityResolver maps an Authorization header to a caller identity
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization string) auth.Identity
}

// Components are the pipeline stages, in execution order
type Components struct {
	Validator *Validator
	Auth      IdentityResolver
	Gate      *quota.Gate
	Parser    *IntentParser
	Generator *MessageGenerator
	Recorder  *quota.Recorder
}

// Service runs the generation pipeline for one request at a time.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	Components
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewService wires the pipeline. m may be nil.
func NewService(c Components, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{
		Components: c,
		metrics:    m,
		logger:     log.With("component", "generation"),
	}
}

// Generate validates body, resolves the caller, enforces the quota, parses
// intent, generates the message and records usage, strictly in that order.
// Returned errors are DomainErrors for the response builder.
func (s *Service) Generate(ctx context.Context, body []byte, authorization string) (string, error) {
	req, err := s.Validator.Validate(body)
	if err != nil {
		s.metrics.RecordGeneration("rejected")
		return "", err
	}

	identity := s.Auth.Resolve(ctx, authorization)
	log := s.logger.WithContext(ctx).With("user", auth.Describe(identity))
	log.Info("processing generation request",
		"context", req.Context,
		"output_format", req.OutputFormat,
		"output_length", req.OutputLength,
		"input_chars", len([]rune(req.UserInput)),
	)

	decision, err := s.Gate.Check(ctx, identity)
	if err != nil {
		s.metrics.RecordGeneration("rejected")
		return "", err
	}

	intent := s.Parser.Parse(ctx, req.UserInput)

	message, err := s.Generator.Generate(ctx, intent, req)
	if err != nil {
		s.metrics.RecordGeneration("failed")
		log.Error("generation failed", "error", err)
		if domain.IsGenerationFailed(err) {
			return "", err
		}
		return "", domain.NewGenerationError(err)
	}

	s.Recorder.Record(ctx, identity, decision.Pending)

	s.metrics.RecordGeneration("success")
	log.Info("generation succeeded", "tone", intent.Tone)
	return message, nil
}
