package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// Store reads and writes the externally owned profiles table.
// Queries use $n placeholders, understood by both lib/pq and go-sqlite3.
type Store struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

var _ domain.ProfileRepository = (*Store)(nil)

// NewStore creates a profile store. m may be nil.
func NewStore(db *sql.DB, m *metrics.Metrics) *Store {
	return &Store{db: db, metrics: m}
}

// GetProfile fetches one profile row
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	defer s.observe("get_profile", time.Now())

	var (
		p            models.Profile
		status       sql.NullString
		lastAt       sql.NullTime
		count        sql.NullInt64
		customerID   sql.NullString
		subscription sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, subscription_status, last_suggestion_at, suggestion_count_today,
		       stripe_customer_id, subscription_id
		FROM profiles
		WHERE id = $1`, userID,
	).Scan(&p.ID, &status, &lastAt, &count, &customerID, &subscription)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("profile")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	p.SubscriptionStatus = status.String
	if lastAt.Valid {
		t := lastAt.Time
		p.LastSuggestionAt = &t
	}
	p.SuggestionCountToday = int(count.Int64)
	p.StripeCustomerID = customerID.String
	p.SubscriptionID = subscription.String

	return &p, nil
}

// UpdateUsage writes the quota counters
func (s *Store) UpdateUsage(ctx context.Context, userID string, update models.UsageUpdate) error {
	defer s.observe("update_usage", time.Now())

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET last_suggestion_at = $1, suggestion_count_today = $2
		WHERE id = $3`,
		update.LastSuggestionAt, update.SuggestionCountToday, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update usage: %w", err)
	}
	return expectRow(res)
}

// SetStripeCustomerID links a profile to its Stripe customer
func (s *Store) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	defer s.observe("set_customer", time.Now())

	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET stripe_customer_id = $1 WHERE id = $2`,
		customerID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to store stripe customer id: %w", err)
	}
	return expectRow(res)
}

// UpdateSubscriptionByCustomer applies a subscription change to every profile
// linked to customerID and returns the number of rows updated.
func (s *Store) UpdateSubscriptionByCustomer(ctx context.Context, customerID string, update models.SubscriptionUpdate) (int64, error) {
	defer s.observe("update_subscription", time.Now())

	sets := []string{"subscription_status = $1"}
	args := []any{update.Status}
	if update.SubscriptionID != nil {
		var id sql.NullString
		if *update.SubscriptionID != "" {
			id = sql.NullString{String: *update.SubscriptionID, Valid: true}
		}
		args = append(args, id)
		sets = append(sets, fmt.Sprintf("subscription_id = $%d", len(args)))
	}
	args = append(args, customerID)

	query := fmt.Sprintf("UPDATE profiles SET %s WHERE stripe_customer_id = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("profile")
	}
	return nil
}

func (s *Store) observe(operation string, start time.Time) {
	s.metrics.RecordDBQuery(operation, time.Since(start))
}
