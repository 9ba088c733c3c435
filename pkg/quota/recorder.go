package quota

import (
	"context"

	"github.com/toneelevate/tonesmith/pkg/auth"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// Recorder persists pending usage updates after a successful generation
type Recorder struct {
	usage   domain.UsageWriter
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewRecorder creates a usage recorder. m may be nil.
func NewRecorder(usage domain.UsageWriter, m *metrics.Metrics, log logger.Logger) *Recorder {
	return &Recorder{
		usage:   usage,
		metrics: m,
		logger:  log.With("component", "usage_recorder"),
	}
}

// Record writes update for id. It is best-effort: failures are logged and
// counted, never returned.
func (r *Recorder) Record(ctx context.Context, id auth.Identity, update *models.UsageUpdate) {
	userID, ok := auth.UserIDOf(id)
	if !ok || update == nil {
		return
	}

	if err := r.usage.UpdateUsage(ctx, userID, *update); err != nil {
		r.metrics.RecordUsageFailure()
		r.logger.Error("failed to update usage count",
			"user_id", userID,
			"suggestion_count_today", update.SuggestionCountToday,
			"error", err,
		)
		return
	}

	r.logger.Debug("usage recorded", "user_id", userID, "suggestion_count_today", update.SuggestionCountToday)
}
