// Package profilestest provides an in-memory profiles table for tests.
package profilestest

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

const schema = `
CREATE TABLE profiles (
	id TEXT PRIMARY KEY,
	subscription_status TEXT,
	last_suggestion_at TIMESTAMP,
	suggestion_count_today INTEGER DEFAULT 0,
	stripe_customer_id TEXT,
	subscription_id TEXT
)`

// Row is a profile fixture
type Row struct {
	ID                   string
	SubscriptionStatus   string
	LastSuggestionAt     *time.Time
	SuggestionCountToday int
	StripeCustomerID     string
	SubscriptionID       string
}

// NewDB opens an in-memory SQLite database with the profiles table
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

// Insert adds a profile row
func Insert(t *testing.T, db *sql.DB, r Row) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO profiles (id, subscription_status, last_suggestion_at, suggestion_count_today,
		                      stripe_customer_id, subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, nullable(r.SubscriptionStatus), r.LastSuggestionAt, r.SuggestionCountToday,
		nullable(r.StripeCustomerID), nullable(r.SubscriptionID),
	)
	require.NoError(t, err)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
