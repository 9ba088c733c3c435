package quota

import (
	"context"
	"time"

	"github.com/toneelevate/tonesmith/pkg/auth"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// Decision is the outcome of a quota check that allows generation.
// Pending is nil when nothing should be recorded afterwards.
type Decision struct {
	Pending *models.UsageUpdate
}

// Gate enforces the daily free-tier generation limit
type Gate struct {
	profiles domain.ProfileReader
	limit    int
	location *time.Location
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// Option customizes a Gate
type Option func(*Gate)

// WithLocation sets the timezone that defines a calendar day
func WithLocation(loc *time.Location) Option {
	return func(g *Gate) { g.location = loc }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithMetrics records decisions
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// NewGate creates a quota gate allowing limit generations per day
func NewGate(profiles domain.ProfileReader, limit int, log logger.Logger, opts ...Option) *Gate {
	g := &Gate{
		profiles: profiles,
		limit:    limit,
		location: time.Local,
		now:      time.Now,
		logger:   log.With("component", "quota_gate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Limit returns the configured daily limit
func (g *Gate) Limit() int {
	return g.limit
}

// Check decides whether id may generate now. The only error it returns is
// QUOTA_EXCEEDED; lookup failures degrade to untracked generation.
func (g *Gate) Check(ctx context.Context, id auth.Identity) (Decision, error) {
	switch who := id.(type) {
	case auth.Anonymous:
		g.metrics.RecordQuotaDecision("anonymous")
		return Decision{}, nil
	case auth.Authenticated:
		return g.checkUser(ctx, who.UserID)
	default:
		g.logger.Error("unknown identity type, proceeding untracked")
		g.metrics.RecordQuotaDecision("untracked")
		return Decision{}, nil
	}
}

func (g *Gate) checkUser(ctx context.Context, userID string) (Decision, error) {
	log := g.logger.With("user_id", userID)

	profile, err := g.profiles.GetProfile(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			log.Warn("no profile for authenticated user, proceeding without limit checks")
		} else {
			log.Error("profile lookup failed, proceeding without limit checks", "error", err)
		}
		g.metrics.RecordQuotaDecision("untracked")
		return Decision{}, nil
	}

	if profile.IsPremium() {
		log.Debug("premium user, bypassing limit", "subscription_status", profile.SubscriptionStatus)
		g.metrics.RecordQuotaDecision("premium")
		return Decision{}, nil
	}

	now := g.now()
	sameDay := profile.LastSuggestionAt != nil && g.sameDay(*profile.LastSuggestionAt, now)
	count := profile.SuggestionCountToday

	if sameDay && count >= g.limit {
		log.Info("daily limit reached", "count", count, "limit", g.limit)
		g.metrics.RecordQuotaDecision("rejected")
		return Decision{}, domain.NewQuotaExceededError(g.limit)
	}

	next := 1
	if sameDay {
		next = count + 1
	}
	log.Debug("free user under limit", "count", count, "next", next)
	g.metrics.RecordQuotaDecision("free")

	return Decision{Pending: &models.UsageUpdate{
		LastSuggestionAt:     now,
		SuggestionCountToday: next,
	}}, nil
}

// sameDay compares calendar dates in the gate's location
func (g *Gate) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(g.location).Date()
	by, bm, bd := b.In(g.location).Date()
	return ay == by && am == bm && ad == bd
}
