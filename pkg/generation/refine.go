package generation

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/toneelevate/tonesmith/pkg/ai/llm"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/models"
	"github.com/toneelevate/tonesmith/pkg/tones"
)

const (
	refineTemperature = 0.7
	refineMaxTokens   = 1024
)

// Refiner rewrites a generated message from a follow-up instruction.
// It is a premium feature.
type Refiner struct {
	llm      llm.LLMClient
	profiles domain.ProfileReader
	registry *tones.Registry
	validate *validator.Validate
	model    string
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewRefiner creates a refiner. model may be empty to use the client default.
func NewRefiner(client llm.LLMClient, profiles domain.ProfileReader, registry *tones.Registry, model string, m *metrics.Metrics, log logger.Logger) *Refiner {
	return &Refiner{
		llm:      client,
		profiles: profiles,
		registry: registry,
		validate: validator.New(),
		model:    model,
		metrics:  m,
		logger:   log.With("component", "refiner"),
	}
}

// Refine checks the user's subscription, then the request, then calls the LLM
func (r *Refiner) Refine(ctx context.Context, userID string, req models.RefineRequest) (string, error) {
	log := r.logger.With("user_id", userID)

	profile, err := r.profiles.GetProfile(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.NewForbiddenError("User profile not found.")
		}
		return "", domain.NewInternalError(err)
	}
	if !profile.IsPremium() {
		log.Info("refinement denied for non-premium user", "subscription_status", profile.SubscriptionStatus)
		return "", domain.NewForbiddenError("Message refinement requires a Premium subscription.")
	}

	if err := r.validateRequest(req); err != nil {
		return "", err
	}

	prompt := buildRefinePrompt(req.OriginalMessage, req.UserFollowUp, req.Tone,
		r.registry.Instructions(req.Tone), req.Context)

	start := time.Now()
	resp, err := r.llm.Chat(ctx, llm.ChatRequest{
		Model:       r.model,
		Messages:    []llm.ChatMessage{{Role: llm.RoleUser, Content: prompt}},
		Temperature: refineTemperature,
		MaxTokens:   refineMaxTokens,
	})
	r.metrics.RecordLLMCall("refine", time.Since(start), err)
	if err != nil {
		log.Error("refinement failed", "error", err)
		return "", domain.NewGenerationError(err)
	}

	refined := StripBoilerplate(resp.Message)
	if refined == "" {
		return "", domain.NewGenerationError(errEmptyCompletion)
	}
	return refined, nil
}

func (r *Refiner) validateRequest(req models.RefineRequest) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			if fe.Tag() == "max" {
				return domain.NewValidationError("Request fields exceed the maximum length.")
			}
		}
	}
	return domain.NewValidationError("Missing required fields in request body.")
}
